package schedule

import (
	"math"
	"sort"

	"serviceanalyst.onebusaway.org/internal/feed"
)

// TripStop is one row of the derived trip-stop table: a stop time with its dense sequence, a filled
// departure, the trip's attributes and, once clustered, the trip's representative.
type TripStop struct {
	TripID      string
	RouteID     string
	ServiceID   string
	DirectionID string
	ShapeID     string
	StopID      string
	// StopSequence is the dense 1..N rank of the row within its trip.
	StopSequence int
	// OriginalSequence is the stop_sequence value supplied by the feed.
	OriginalSequence int
	ArrivalTime      string
	// DepartureTime is the departure clock after filling from arrival and interpolation. It is empty
	// only when HasDeparture is false.
	DepartureTime string
	// DepartureMinutes is the departure as minutes since the start of the service day. It is not
	// wrapped at midnight.
	DepartureMinutes float64
	HasDeparture     bool
	// Interpolated is set when the departure was estimated from neighbouring stops.
	Interpolated bool
	// Hour is floor(DepartureMinutes / 60); it can exceed 23.
	Hour                 int
	RepresentativeTripID string
}

// NormalizeStopTimes builds the trip-stop table. Trips appear in the order their first stop time
// appears; rows within a trip are ordered by the feed's stop sequence and renumbered 1..N. Missing
// departures are interpolated linearly by position within the trip only; arrival times are carried
// through but never stand in for a departure. Trip attributes are left-joined; the ids of trips missing from the trip
// table are returned and their rows are kept without attributes.
func NormalizeStopTimes(in Records) ([]TripStop, []string) {
	trips := make(map[string]feed.Trip, len(in.Trips))
	for _, trip := range in.Trips {
		trips[trip.TripID] = trip
	}

	var order []string
	byTrip := make(map[string][]feed.StopTime)
	for _, st := range in.StopTimes {
		if _, seen := byTrip[st.TripID]; !seen {
			order = append(order, st.TripID)
		}
		byTrip[st.TripID] = append(byTrip[st.TripID], st)
	}

	unmatched := make(map[string]struct{})
	rows := make([]TripStop, 0, len(in.StopTimes))
	for _, tripID := range order {
		stops := append([]feed.StopTime(nil), byTrip[tripID]...)
		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].StopSequence < stops[j].StopSequence
		})

		trip, ok := trips[tripID]
		if !ok {
			unmatched[tripID] = struct{}{}
		}

		seconds := make([]float64, len(stops))
		known := make([]bool, len(stops))
		for i, st := range stops {
			if secs, ok := feed.ParseClock(st.DepartureTime); ok {
				seconds[i], known[i] = float64(secs), true
			}
		}
		filled, timed := interpolate(seconds, known)

		for i, st := range stops {
			row := TripStop{
				TripID:           tripID,
				RouteID:          trip.RouteID,
				ServiceID:        trip.ServiceID,
				DirectionID:      trip.DirectionID,
				ShapeID:          trip.ShapeID,
				StopID:           st.StopID,
				StopSequence:     i + 1,
				OriginalSequence: st.StopSequence,
				ArrivalTime:      st.ArrivalTime,
			}
			if timed {
				minutes := filled[i] / 60
				row.HasDeparture = true
				row.Interpolated = !known[i]
				row.DepartureMinutes = minutes
				row.DepartureTime = feed.FormatClock(int(math.Round(filled[i])))
				row.Hour = int(math.Floor(minutes / 60))
			}
			rows = append(rows, row)
		}
	}

	return rows, sortedKeys(unmatched)
}

// interpolate fills the unknown entries of values linearly between their known neighbours. Leading
// gaps take the first known value and trailing gaps hold the last one. It reports false when no
// value is known.
func interpolate(values []float64, known []bool) ([]float64, bool) {
	out := append([]float64(nil), values...)
	prev := -1
	for i := range out {
		if !known[i] {
			continue
		}
		if prev == -1 {
			for j := 0; j < i; j++ {
				out[j] = out[i]
			}
		} else if i-prev > 1 {
			step := (out[i] - out[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				out[j] = out[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}
	if prev == -1 {
		return out, false
	}
	for j := prev + 1; j < len(out); j++ {
		out[j] = out[prev]
	}
	return out, true
}
