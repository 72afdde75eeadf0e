package feed

import (
	"time"

	"github.com/jamespfennell/gtfs"
)

// FromStatic converts a feed parsed by jamespfennell/gtfs into typed collections. The parser folds
// calendar_dates.txt into its services, so exceptions are unfolded back into CalendarDate rows.
func FromStatic(name string, static *gtfs.Static) *Feed {
	f := &Feed{Name: name}

	for _, service := range static.Services {
		f.Calendar = append(f.Calendar, CalendarEntry{
			ServiceID: service.Id,
			Monday:    boolToInt(service.Monday),
			Tuesday:   boolToInt(service.Tuesday),
			Wednesday: boolToInt(service.Wednesday),
			Thursday:  boolToInt(service.Thursday),
			Friday:    boolToInt(service.Friday),
			Saturday:  boolToInt(service.Saturday),
			Sunday:    boolToInt(service.Sunday),
			StartDate: dateToInt(service.StartDate),
			EndDate:   dateToInt(service.EndDate),
		})
		for _, d := range service.AddedDates {
			f.CalendarDates = append(f.CalendarDates, CalendarDate{ServiceID: service.Id, Date: dateToInt(d), ExceptionType: ExceptionAdded})
		}
		for _, d := range service.RemovedDates {
			f.CalendarDates = append(f.CalendarDates, CalendarDate{ServiceID: service.Id, Date: dateToInt(d), ExceptionType: ExceptionRemoved})
		}
	}

	for _, route := range static.Routes {
		f.Routes = append(f.Routes, Route{
			RouteID:   route.Id,
			ShortName: route.ShortName,
			LongName:  route.LongName,
			RouteType: int(route.Type),
		})
	}

	for _, stop := range static.Stops {
		f.Stops = append(f.Stops, Stop{
			StopID:    stop.Id,
			Latitude:  stop.Latitude,
			Longitude: stop.Longitude,
		})
	}

	for _, shape := range static.Shapes {
		for i, point := range shape.Points {
			f.Shapes = append(f.Shapes, ShapePoint{
				ShapeID:   shape.ID,
				Latitude:  point.Latitude,
				Longitude: point.Longitude,
				Sequence:  i + 1,
			})
		}
	}

	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Route == nil || trip.Service == nil {
			continue
		}
		t := Trip{
			RouteID:     trip.Route.Id,
			ServiceID:   trip.Service.Id,
			TripID:      trip.ID,
			DirectionID: directionFromStatic(trip.DirectionId),
		}
		if trip.Shape != nil {
			t.ShapeID = trip.Shape.ID
		}
		f.Trips = append(f.Trips, t)

		for _, st := range trip.StopTimes {
			if st.Stop == nil {
				continue
			}
			f.StopTimes = append(f.StopTimes, StopTime{
				TripID:        trip.ID,
				StopID:        st.Stop.Id,
				ArrivalTime:   FormatClock(int(st.ArrivalTime / time.Second)),
				DepartureTime: FormatClock(int(st.DepartureTime / time.Second)),
				StopSequence:  st.StopSequence,
			})
		}

		for _, freq := range trip.Frequencies {
			f.Frequencies = append(f.Frequencies, Frequency{
				TripID:      trip.ID,
				StartTime:   FormatClock(int(freq.StartTime / time.Second)),
				EndTime:     FormatClock(int(freq.EndTime / time.Second)),
				HeadwaySecs: int(freq.Headway / time.Second),
			})
		}
	}

	f.normalize()
	return f
}

// directionFromStatic maps the parser's tri-state direction onto the GTFS 0/1 values.
func directionFromStatic(d gtfs.DirectionID) string {
	switch d {
	case gtfs.DirectionID_True:
		return "1"
	case gtfs.DirectionID_False:
		return "0"
	default:
		return ""
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dateToInt(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
