package schedule

import (
	"log/slog"
)

// Diagnostics lists the recoverable gaps found while deriving a schedule. None of them abort a
// derivation; each names the identifiers affected.
type Diagnostics struct {
	// OrphanStopTimeTrips are trip ids referenced by stop_times.txt but absent from trips.txt.
	// Without a trip there is no service id to test against the date, so their stop times are
	// dropped by FilterRecords and appear in no view, count-based ones included.
	OrphanStopTimeTrips []string `json:"orphanStopTimeTrips"`
	// UnmatchedTrips are trip ids in the trip-stop table with no trip attributes to join.
	UnmatchedTrips        []string      `json:"unmatchedTrips"`
	SkippedFrequencyRules []SkippedRule `json:"skippedFrequencyRules"`
	IDCollisions          []string      `json:"idCollisions"`
	// TripsWithoutDepartures have no clock value at any stop.
	TripsWithoutDepartures          []string `json:"tripsWithoutDepartures"`
	TripsWithoutShape               []string `json:"tripsWithoutShape"`
	RepresentativeTripsWithoutShape []string `json:"representativeTripsWithoutShape"`
}

// Empty reports whether no gap was found.
func (d Diagnostics) Empty() bool {
	return len(d.OrphanStopTimeTrips) == 0 &&
		len(d.UnmatchedTrips) == 0 &&
		len(d.SkippedFrequencyRules) == 0 &&
		len(d.IDCollisions) == 0 &&
		len(d.TripsWithoutDepartures) == 0 &&
		len(d.TripsWithoutShape) == 0 &&
		len(d.RepresentativeTripsWithoutShape) == 0
}

// shapeGaps returns the trips, in trip order, whose shape id is empty or has no points, and the
// subset of those that represent a pattern, in pattern order.
func shapeGaps(records Records, patterns []Pattern) ([]string, []string) {
	shapes := make(map[string]struct{})
	for _, p := range records.Shapes {
		shapes[p.ShapeID] = struct{}{}
	}

	missing := make(map[string]struct{})
	trips := []string{}
	for _, trip := range records.Trips {
		if _, ok := shapes[trip.ShapeID]; ok && trip.ShapeID != "" {
			continue
		}
		missing[trip.TripID] = struct{}{}
		trips = append(trips, trip.TripID)
	}

	reps := []string{}
	for _, p := range patterns {
		if _, ok := missing[p.RepresentativeTripID]; ok {
			reps = append(reps, p.RepresentativeTripID)
		}
	}
	return trips, reps
}

func tripsWithoutDepartures(rows []TripStop) []string {
	out := []string{}
	for _, row := range rows {
		if row.StopSequence == 1 && !row.HasDeparture {
			out = append(out, row.TripID)
		}
	}
	return out
}

func (d Diagnostics) log(logger *slog.Logger) {
	warn := func(msg string, ids []string) {
		if len(ids) == 0 {
			return
		}
		logger.Warn(msg,
			slog.Int("count", len(ids)),
			slog.Any("trip_ids", ids))
	}
	warn("stop times reference unknown trips", d.OrphanStopTimeTrips)
	warn("trip attributes missing for stop times", d.UnmatchedTrips)
	warn("synthesized trip ids collide with existing trips", d.IDCollisions)
	warn("trips without departures", d.TripsWithoutDepartures)
	warn("trips without shape", d.TripsWithoutShape)
	warn("representative trips without shape", d.RepresentativeTripsWithoutShape)
	for _, rule := range d.SkippedFrequencyRules {
		logger.Warn("frequency rule skipped",
			slog.String("trip_id", rule.TripID),
			slog.String("start_time", rule.StartTime),
			slog.String("end_time", rule.EndTime),
			slog.String("reason", rule.Reason))
	}
}
