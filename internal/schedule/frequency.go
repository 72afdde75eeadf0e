package schedule

import (
	"fmt"
	"sort"

	"serviceanalyst.onebusaway.org/internal/feed"
)

// SkippedRule is a frequency rule that produced no trip instances.
type SkippedRule struct {
	TripID    string `json:"tripId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

// ExpansionReport lists what ExpandFrequencies could not materialize.
type ExpansionReport struct {
	Skipped []SkippedRule
	// Collisions holds synthesized trip ids that already existed in the feed; those instances are
	// not emitted.
	Collisions []string
}

// clockTolerance absorbs end times written one second short of a full headway, e.g. 06:59:59.
const clockTolerance = 1

// InstanceCount returns how many trips a rule yields: floor((end-start)/headway), so no instance
// departs at or after end. A window that falls short of another full headway by no more than
// clockTolerance still counts that headway.
func InstanceCount(startSecs, endSecs, headwaySecs int) int {
	if headwaySecs <= 0 || endSecs <= startSecs {
		return 0
	}
	window := endSecs - startSecs
	n := window / headwaySecs
	if rem := window % headwaySecs; rem > 0 && headwaySecs-rem <= clockTolerance {
		n++
	}
	return n
}

// ExpandFrequencies replaces every template trip referenced by a frequency rule with concrete trip
// instances. Instance i of a rule starts at start + i*headway; each stop keeps its offset from the
// template's first arrival. Instances are named {template}_{n}, or {template}_{rule}_{n} when the
// template has several rules, so numbering never collides across rules.
func ExpandFrequencies(in Records) (Records, ExpansionReport) {
	var report ExpansionReport
	if len(in.Frequencies) == 0 {
		return in, report
	}

	rulesByTrip := make(map[string][]feed.Frequency)
	for _, rule := range in.Frequencies {
		rulesByTrip[rule.TripID] = append(rulesByTrip[rule.TripID], rule)
	}

	templateStops := make(map[string][]feed.StopTime)
	for _, st := range in.StopTimes {
		if _, ok := rulesByTrip[st.TripID]; ok {
			templateStops[st.TripID] = append(templateStops[st.TripID], st)
		}
	}

	taken := make(map[string]struct{}, len(in.Trips))
	for _, trip := range in.Trips {
		if _, ok := rulesByTrip[trip.TripID]; !ok {
			taken[trip.TripID] = struct{}{}
		}
	}

	out := Records{
		Routes:      in.Routes,
		Shapes:      in.Shapes,
		Frequencies: in.Frequencies,
	}
	var expandedStops []feed.StopTime

	for _, trip := range in.Trips {
		rules, ok := rulesByTrip[trip.TripID]
		if !ok {
			out.Trips = append(out.Trips, trip)
			continue
		}

		stops := append([]feed.StopTime(nil), templateStops[trip.TripID]...)
		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].StopSequence < stops[j].StopSequence
		})
		anchor, anchored := -1, false
		if len(stops) > 0 {
			anchor, anchored = stopClock(stops[0])
		}

		for r, rule := range rules {
			skip := func(reason string) {
				report.Skipped = append(report.Skipped, SkippedRule{
					TripID: rule.TripID, StartTime: rule.StartTime, EndTime: rule.EndTime, Reason: reason,
				})
			}
			if len(stops) == 0 {
				skip("template trip has no stop times")
				continue
			}
			if !anchored {
				skip("template first stop has no time")
				continue
			}
			startSecs, okStart := feed.ParseClock(rule.StartTime)
			endSecs, okEnd := feed.ParseClock(rule.EndTime)
			if !okStart || !okEnd {
				skip("invalid start or end time")
				continue
			}
			count := InstanceCount(startSecs, endSecs, rule.HeadwaySecs)
			if count == 0 {
				skip("rule window yields no instances")
				continue
			}

			for i := 0; i < count; i++ {
				id := fmt.Sprintf("%s_%d", trip.TripID, i+1)
				if len(rules) > 1 {
					id = fmt.Sprintf("%s_%d_%d", trip.TripID, r+1, i+1)
				}
				if _, exists := taken[id]; exists {
					report.Collisions = append(report.Collisions, id)
					continue
				}
				taken[id] = struct{}{}

				instance := trip
				instance.TripID = id
				out.Trips = append(out.Trips, instance)

				base := startSecs + i*rule.HeadwaySecs
				for _, st := range stops {
					st.TripID = id
					if secs, ok := stopClock(st); ok {
						clock := feed.FormatClock(base + secs - anchor)
						st.ArrivalTime = clock
						st.DepartureTime = clock
					} else {
						st.ArrivalTime = ""
						st.DepartureTime = ""
					}
					expandedStops = append(expandedStops, st)
				}
			}
		}
	}

	for _, st := range in.StopTimes {
		if _, ok := rulesByTrip[st.TripID]; !ok {
			out.StopTimes = append(out.StopTimes, st)
		}
	}
	out.StopTimes = append(out.StopTimes, expandedStops...)

	return out, report
}

// stopClock returns the arrival time of a stop, falling back to its departure time.
func stopClock(st feed.StopTime) (int, bool) {
	if secs, ok := feed.ParseClock(st.ArrivalTime); ok {
		return secs, true
	}
	return feed.ParseClock(st.DepartureTime)
}
