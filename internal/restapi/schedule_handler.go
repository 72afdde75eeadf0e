package restapi

import (
	"net/http"
	"slices"

	"serviceanalyst.onebusaway.org/internal/models"
	"serviceanalyst.onebusaway.org/internal/schedule"
	"serviceanalyst.onebusaway.org/internal/utils"
)

// scheduleHandlerFunc serves one view of a schedule derived for the request's date. routeID is the
// sanitized routeId query parameter, empty when absent.
type scheduleHandlerFunc func(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string)

// withSchedule validates the date path parameter and derives a fresh schedule for every request.
func (api *RestAPI) withSchedule(next scheduleHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := utils.ExtractIDFromParams(r, "date")
		routeID := utils.SanitizeInput(r.URL.Query().Get("routeId"))

		if fieldErrors := utils.ValidateScheduleParams(date, routeID); len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}

		serviceDate, err := schedule.ParseServiceDate(date)
		if err != nil {
			api.derivationErrorResponse(w, r, err)
			return
		}

		s, err := api.Engine.Derive(serviceDate)
		if err != nil {
			api.derivationErrorResponse(w, r, err)
			return
		}

		next(w, r, s, routeID)
	}
}

func (api *RestAPI) servicesHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, _ string) {
	entry := models.ServiceDayEntry{
		Date:         s.Date.String(),
		Weekday:      s.Date.Weekday,
		Feed:         s.Feed,
		DerivationID: s.ID,
		ServiceIDs:   s.ServiceIDs,
		TripCount:    len(s.Trips),
		PatternCount: len(s.Patterns),
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, buildReferences(s, "")))
}

func (api *RestAPI) tripsPerHourByLineHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	entry := hourlyTableEntry(s.TripsPerHourByLine(), routeID)
	api.sendResponse(w, r, models.NewEntryResponse(entry, buildReferences(s, routeID)))
}

// Stop rows carry no route, so the route filter does not apply.
func (api *RestAPI) tripsPerHourByStopHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, _ string) {
	entry := hourlyTableEntry(s.TripsPerHourByStop(), "")
	api.sendResponse(w, r, models.NewEntryResponse(entry, buildReferences(s, "")))
}

func (api *RestAPI) lineTimesHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	list := filterByRoute(s.LineTimes(), routeID, func(lt schedule.LineTime) string { return lt.RouteID })
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) serviceTimeByLineHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	list := filterByRoute(s.ServiceTimeByLine(), routeID, func(st schedule.LineServiceTime) string { return st.RouteID })
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) routesByStopHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	var list []schedule.StopRoutes
	for _, sr := range s.RoutesByStop() {
		if routeID == "" || slices.Contains(sr.RouteIDs, routeID) {
			list = append(list, sr)
		}
	}
	api.sendResponse(w, r, models.NewListResponse(nonNilList(list), buildReferences(s, routeID)))
}

func (api *RestAPI) totalTripsByLineHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	list := filterByRoute(s.TotalTripsByLine(), routeID, func(c schedule.LineTripCount) string { return c.RouteID })
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) patternsHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	list := filterByRoute(s.Patterns, routeID, func(p schedule.Pattern) string { return p.RouteID })
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	lines := filterByRoute(s.Lines(), routeID, func(l schedule.Line) string { return l.RouteID })
	list := make([]models.LineEntry, 0, len(lines))
	for _, line := range lines {
		list = append(list, lineEntry(line))
	}
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) lineStopsHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, routeID string) {
	list := filterByRoute(s.LineStops(), routeID, func(ls schedule.LineStop) string { return ls.RouteID })
	api.sendResponse(w, r, models.NewListResponse(list, buildReferences(s, routeID)))
}

func (api *RestAPI) diagnosticsHandler(w http.ResponseWriter, r *http.Request, s *schedule.Schedule, _ string) {
	api.sendResponse(w, r, models.NewEntryResponse(s.Diagnostics, models.NewEmptyReferences()))
}

func hourlyTableEntry(t schedule.HourlyTable, routeID string) models.HourlyTableEntry {
	rows := make([]models.HourlyRowEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		if routeID != "" && row.RouteID != routeID {
			continue
		}
		rows = append(rows, models.HourlyRowEntry{
			Key:         row.Key,
			RouteID:     row.RouteID,
			DirectionID: row.DirectionID,
			Counts:      row.Counts,
			Total:       row.Total(),
		})
	}
	return models.HourlyTableEntry{
		Columns: t.Columns(),
		Hours:   nonNilList(t.Hours),
		Rows:    rows,
	}
}

func lineEntry(line schedule.Line) models.LineEntry {
	points := make([]models.CoordinatePoint, len(line.Points))
	lats := make([]float64, len(line.Points))
	lons := make([]float64, len(line.Points))
	for i, p := range line.Points {
		points[i] = models.CoordinatePoint{Lat: p.Latitude, Lon: p.Longitude}
		lats[i], lons[i] = p.Latitude, p.Longitude
	}
	return models.LineEntry{
		RepresentativeTripID: line.RepresentativeTripID,
		RouteID:              line.RouteID,
		DirectionID:          line.DirectionID,
		ShapeID:              line.ShapeID,
		Heading:              utils.LineHeading(lats, lons),
		Polylines:            models.EncodePolylines(points),
	}
}

func filterByRoute[T any](items []T, routeID string, routeOf func(T) string) []T {
	if routeID == "" {
		return nonNilList(items)
	}
	out := []T{}
	for _, item := range items {
		if routeOf(item) == routeID {
			out = append(out, item)
		}
	}
	return out
}

func nonNilList[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
