package schedule

import (
	"sort"
	"strconv"

	"serviceanalyst.onebusaway.org/internal/feed"
)

// HourlyRow is one line of an HourlyTable. Counts is aligned with the table's Hours.
type HourlyRow struct {
	Key         string `json:"key"`
	RouteID     string `json:"routeId,omitempty"`
	DirectionID string `json:"directionId,omitempty"`
	Counts      []int  `json:"counts"`
}

// Total is the sum of the row's counts.
func (r HourlyRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// HourlyTable is a departures-per-hour pivot: one column per observed hour bucket, zero-filled.
type HourlyTable struct {
	KeyColumn string      `json:"keyColumn"`
	Hours     []int       `json:"hours"`
	Rows      []HourlyRow `json:"rows"`

	withRoute bool
}

// Columns returns the table's column names in order.
func (t HourlyTable) Columns() []string {
	cols := []string{t.KeyColumn}
	if t.withRoute {
		cols = append(cols, "route_id", "direction_id")
	}
	for _, h := range t.Hours {
		cols = append(cols, strconv.Itoa(h))
	}
	return cols
}

// Row returns the row for key.
func (t HourlyTable) Row(key string) (HourlyRow, bool) {
	i := sort.Search(len(t.Rows), func(i int) bool { return t.Rows[i].Key >= key })
	if i < len(t.Rows) && t.Rows[i].Key == key {
		return t.Rows[i], true
	}
	return HourlyRow{}, false
}

// Count returns the count for key in hour, zero when either is absent.
func (t HourlyTable) Count(key string, hour int) int {
	row, ok := t.Row(key)
	if !ok {
		return 0
	}
	for i, h := range t.Hours {
		if h == hour {
			return row.Counts[i]
		}
	}
	return 0
}

// pivotHours counts departures per key and hour. When routeOf is non-nil each row is joined with
// the route and direction it returns for the row's key.
func pivotHours(keyColumn string, rows []TripStop, keyOf func(TripStop) string, include func(TripStop) bool, routeOf func(key string) (string, string)) HourlyTable {
	counts := make(map[string]map[int]int)
	hourSet := make(map[int]struct{})
	for _, row := range rows {
		if !row.HasDeparture || !include(row) {
			continue
		}
		key := keyOf(row)
		if counts[key] == nil {
			counts[key] = make(map[int]int)
		}
		counts[key][row.Hour]++
		hourSet[row.Hour] = struct{}{}
	}

	table := HourlyTable{KeyColumn: keyColumn, Hours: make([]int, 0, len(hourSet)), withRoute: routeOf != nil}
	for h := range hourSet {
		table.Hours = append(table.Hours, h)
	}
	sort.Ints(table.Hours)

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		row := HourlyRow{Key: key, Counts: make([]int, len(table.Hours))}
		if routeOf != nil {
			row.RouteID, row.DirectionID = routeOf(key)
		}
		for i, h := range table.Hours {
			row.Counts[i] = counts[key][h]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// TripsPerHourByLine counts trips starting in each hour per representative trip, using the
// departure at each trip's first stop. Route and direction come from the representative trip.
func (s *Schedule) TripsPerHourByLine() HourlyTable {
	trips := s.tripsByID()
	return pivotHours("representative_trip_id", s.Rows,
		func(r TripStop) string { return r.RepresentativeTripID },
		func(r TripStop) bool { return r.StopSequence == 1 },
		func(key string) (string, string) {
			trip := trips[key]
			return trip.RouteID, trip.DirectionID
		})
}

// TripsPerHourByStop counts departures in each hour per stop.
func (s *Schedule) TripsPerHourByStop() HourlyTable {
	return pivotHours("stop_id", s.Rows,
		func(r TripStop) string { return r.StopID },
		func(TripStop) bool { return true },
		nil)
}

// LineTime is the running time of one trip from its first to its last departure.
type LineTime struct {
	TripID               string  `json:"tripId"`
	RepresentativeTripID string  `json:"representativeTripId"`
	RouteID              string  `json:"routeId"`
	DirectionID          string  `json:"directionId"`
	FirstDeparture       float64 `json:"firstDepartureMinutes"`
	LastDeparture        float64 `json:"lastDepartureMinutes"`
	Minutes              float64 `json:"minutes"`
}

// LineTimes returns the running time of every trip with departures, in trip order.
func (s *Schedule) LineTimes() []LineTime {
	var out []LineTime
	for start := 0; start < len(s.Rows); {
		end := start + 1
		for end < len(s.Rows) && s.Rows[end].TripID == s.Rows[start].TripID {
			end++
		}
		first, last := s.Rows[start], s.Rows[end-1]
		start = end
		if !first.HasDeparture {
			continue
		}
		out = append(out, LineTime{
			TripID:               first.TripID,
			RepresentativeTripID: first.RepresentativeTripID,
			RouteID:              first.RouteID,
			DirectionID:          first.DirectionID,
			FirstDeparture:       first.DepartureMinutes,
			LastDeparture:        last.DepartureMinutes,
			Minutes:              last.DepartureMinutes - first.DepartureMinutes,
		})
	}
	return out
}

// LineServiceTime is the running time of all trips of a line summed together.
type LineServiceTime struct {
	RepresentativeTripID string  `json:"representativeTripId"`
	RouteID              string  `json:"routeId"`
	DirectionID          string  `json:"directionId"`
	Minutes              float64 `json:"minutes"`
}

// ServiceTimeByLine sums LineTimes per representative trip, ordered by representative id.
func (s *Schedule) ServiceTimeByLine() []LineServiceTime {
	index := make(map[string]int)
	var out []LineServiceTime
	for _, lt := range s.LineTimes() {
		i, ok := index[lt.RepresentativeTripID]
		if !ok {
			i = len(out)
			index[lt.RepresentativeTripID] = i
			out = append(out, LineServiceTime{
				RepresentativeTripID: lt.RepresentativeTripID,
				RouteID:              lt.RouteID,
				DirectionID:          lt.DirectionID,
			})
		}
		out[i].Minutes += lt.Minutes
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RepresentativeTripID < out[j].RepresentativeTripID
	})
	return out
}

// StopRoutes lists the distinct routes serving a stop.
type StopRoutes struct {
	StopID   string   `json:"stopId"`
	RouteIDs []string `json:"routeIds"`
}

// RoutesByStop lists, for every stop, the routes whose patterns visit it. Only representative trips
// are read, so each pattern counts once.
func (s *Schedule) RoutesByStop() []StopRoutes {
	routes := make(map[string]map[string]struct{})
	for _, row := range s.Rows {
		if row.TripID != row.RepresentativeTripID {
			continue
		}
		if routes[row.StopID] == nil {
			routes[row.StopID] = make(map[string]struct{})
		}
		routes[row.StopID][row.RouteID] = struct{}{}
	}
	out := make([]StopRoutes, 0, len(routes))
	for _, stopID := range sortedKeys(toSet(routes)) {
		out = append(out, StopRoutes{StopID: stopID, RouteIDs: sortedKeys(routes[stopID])})
	}
	return out
}

// LineTripCount is the number of physical trips in a pattern.
type LineTripCount struct {
	RepresentativeTripID string `json:"representativeTripId"`
	RouteID              string `json:"routeId"`
	DirectionID          string `json:"directionId"`
	Trips                int    `json:"trips"`
}

// TotalTripsByLine counts the trips mapped to each representative trip, ordered by representative id.
func (s *Schedule) TotalTripsByLine() []LineTripCount {
	direction := make(map[string]string)
	for _, row := range s.Rows {
		if row.TripID == row.RepresentativeTripID {
			direction[row.TripID] = row.DirectionID
		}
	}
	out := make([]LineTripCount, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		out = append(out, LineTripCount{
			RepresentativeTripID: p.RepresentativeTripID,
			RouteID:              p.RouteID,
			DirectionID:          direction[p.RepresentativeTripID],
			Trips:                len(p.TripIDs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RepresentativeTripID < out[j].RepresentativeTripID
	})
	return out
}

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Line is a representative trip joined with its route and the ordered points of its shape.
type Line struct {
	RepresentativeTripID string  `json:"representativeTripId"`
	RouteID              string  `json:"routeId"`
	ShortName            string  `json:"shortName"`
	LongName             string  `json:"longName"`
	RouteType            int     `json:"routeType"`
	DirectionID          string  `json:"directionId"`
	ShapeID              string  `json:"shapeId"`
	Points               []Point `json:"points"`
}

// Lines returns the geometry of every pattern whose representative trip has a shape, in pattern
// order. Representatives without a shape are listed in Diagnostics instead.
func (s *Schedule) Lines() []Line {
	shapes := s.shapePoints()
	routes := make(map[string]feed.Route, len(s.records.Routes))
	for _, r := range s.records.Routes {
		routes[r.RouteID] = r
	}
	trips := s.tripsByID()

	var out []Line
	for _, p := range s.Patterns {
		trip := trips[p.RepresentativeTripID]
		points, ok := shapes[trip.ShapeID]
		if !ok {
			continue
		}
		route := routes[p.RouteID]
		out = append(out, Line{
			RepresentativeTripID: p.RepresentativeTripID,
			RouteID:              p.RouteID,
			ShortName:            route.ShortName,
			LongName:             route.LongName,
			RouteType:            route.RouteType,
			DirectionID:          trip.DirectionID,
			ShapeID:              trip.ShapeID,
			Points:               points,
		})
	}
	return out
}

// LineStop is a stop visited by a representative trip.
type LineStop struct {
	RepresentativeTripID string  `json:"representativeTripId"`
	RouteID              string  `json:"routeId"`
	StopID               string  `json:"stopId"`
	StopName             string  `json:"stopName"`
	StopSequence         int     `json:"stopSequence"`
	Latitude             float64 `json:"lat"`
	Longitude            float64 `json:"lon"`
}

// LineStops returns the located stops of every representative trip in sequence order. Stops
// without coordinates in stops.txt are omitted.
func (s *Schedule) LineStops() []LineStop {
	stops := make(map[string]feed.Stop, len(s.stops))
	for _, st := range s.stops {
		stops[st.StopID] = st
	}
	var out []LineStop
	for _, row := range s.Rows {
		if row.TripID != row.RepresentativeTripID {
			continue
		}
		stop, ok := stops[row.StopID]
		if !ok || stop.Latitude == nil || stop.Longitude == nil {
			continue
		}
		out = append(out, LineStop{
			RepresentativeTripID: row.RepresentativeTripID,
			RouteID:              row.RouteID,
			StopID:               row.StopID,
			StopName:             stop.Name,
			StopSequence:         row.StopSequence,
			Latitude:             *stop.Latitude,
			Longitude:            *stop.Longitude,
		})
	}
	return out
}

func (s *Schedule) shapePoints() map[string][]Point {
	byShape := make(map[string][]feed.ShapePoint)
	for _, p := range s.records.Shapes {
		byShape[p.ShapeID] = append(byShape[p.ShapeID], p)
	}
	out := make(map[string][]Point, len(byShape))
	for id, pts := range byShape {
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].Sequence < pts[j].Sequence })
		points := make([]Point, len(pts))
		for i, p := range pts {
			points[i] = Point{Latitude: p.Latitude, Longitude: p.Longitude}
		}
		out[id] = points
	}
	return out
}

func (s *Schedule) tripsByID() map[string]feed.Trip {
	trips := make(map[string]feed.Trip, len(s.Trips))
	for _, t := range s.Trips {
		trips[t.TripID] = t
	}
	return trips
}

func toSet[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}
