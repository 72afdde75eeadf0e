package schedule

import (
	"sort"

	"serviceanalyst.onebusaway.org/internal/feed"
)

// Records is the working set of a derivation. Every stage returns a new Records value and leaves
// its input untouched.
type Records struct {
	Trips       []feed.Trip
	StopTimes   []feed.StopTime
	Routes      []feed.Route
	Shapes      []feed.ShapePoint
	Frequencies []feed.Frequency
}

// FilterRecords restricts the feed to what is reachable from the active services. It also returns
// the trip ids referenced by stop_times.txt that do not exist in trips.txt at all; those rows cannot
// be attributed to a service and are dropped.
func FilterRecords(f *feed.Feed, services ServiceSet) (Records, []string) {
	var out Records

	known := make(map[string]struct{}, len(f.Trips))
	active := make(map[string]struct{})
	routeIDs := make(map[string]struct{})
	shapeIDs := make(map[string]struct{})
	for _, trip := range f.Trips {
		known[trip.TripID] = struct{}{}
		if !services.Contains(trip.ServiceID) {
			continue
		}
		out.Trips = append(out.Trips, trip)
		active[trip.TripID] = struct{}{}
		routeIDs[trip.RouteID] = struct{}{}
		if trip.ShapeID != "" {
			shapeIDs[trip.ShapeID] = struct{}{}
		}
	}

	orphans := make(map[string]struct{})
	for _, st := range f.StopTimes {
		if _, ok := active[st.TripID]; ok {
			out.StopTimes = append(out.StopTimes, st)
			continue
		}
		if _, ok := known[st.TripID]; !ok {
			orphans[st.TripID] = struct{}{}
		}
	}

	for _, route := range f.Routes {
		if _, ok := routeIDs[route.RouteID]; ok {
			out.Routes = append(out.Routes, route)
		}
	}
	for _, point := range f.Shapes {
		if _, ok := shapeIDs[point.ShapeID]; ok {
			out.Shapes = append(out.Shapes, point)
		}
	}
	for _, rule := range f.Frequencies {
		if _, ok := active[rule.TripID]; ok {
			out.Frequencies = append(out.Frequencies, rule)
		}
	}

	return out, sortedKeys(orphans)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
