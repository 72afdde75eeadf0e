package schedule

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Pattern groups the trips of a route that visit exactly the same ordered stops.
type Pattern struct {
	RouteID              string   `json:"routeId"`
	RepresentativeTripID string   `json:"representativeTripId"`
	StopIDs              []string `json:"stopIds"`
	TripIDs              []string `json:"tripIds"`
}

type patternKey struct {
	routeID string
	digest  uint64
}

// ClusterPatterns assigns every trip the representative of its pattern. Trips are keyed by route
// and a digest of their full ordered stop sequence; sequences sharing a digest are still compared
// element by element. The first trip seen for a sequence becomes its representative. Rows must be
// grouped by trip and ordered by stop sequence, as NormalizeStopTimes returns them.
func ClusterPatterns(rows []TripStop) ([]TripStop, []Pattern) {
	var patterns []Pattern
	buckets := make(map[patternKey][]int)
	representative := make(map[string]string)

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].TripID == rows[start].TripID {
			end++
		}
		tripID, routeID := rows[start].TripID, rows[start].RouteID
		stops := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			stops = append(stops, row.StopID)
		}
		start = end

		if _, done := representative[tripID]; done {
			continue
		}

		key := patternKey{routeID: routeID, digest: sequenceDigest(stops)}
		matched := -1
		for _, idx := range buckets[key] {
			if slices.Equal(patterns[idx].StopIDs, stops) {
				matched = idx
				break
			}
		}
		if matched == -1 {
			matched = len(patterns)
			buckets[key] = append(buckets[key], matched)
			patterns = append(patterns, Pattern{
				RouteID:              routeID,
				RepresentativeTripID: tripID,
				StopIDs:              stops,
			})
		}
		patterns[matched].TripIDs = append(patterns[matched].TripIDs, tripID)
		representative[tripID] = patterns[matched].RepresentativeTripID
	}

	out := make([]TripStop, len(rows))
	for i, row := range rows {
		row.RepresentativeTripID = representative[row.TripID]
		out[i] = row
	}
	return out, patterns
}

func sequenceDigest(stops []string) uint64 {
	d := xxhash.New()
	for _, id := range stops {
		_, _ = d.WriteString(id)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
