package models

import "github.com/twpayne/go-polyline"

type Edge struct {
	A CoordinatePoint
	B CoordinatePoint
}

type CoordinatePoint struct {
	Lat float64
	Lon float64
}

func NewEdge(a, b CoordinatePoint) Edge {
	if ComparePoints(a, b) <= 0 {
		return Edge{A: a, B: b}
	}
	return Edge{A: b, B: a}
}

func ComparePoints(a, b CoordinatePoint) int {
	if a.Lat < b.Lat {
		return -1
	}
	if a.Lat > b.Lat {
		return 1
	}
	if a.Lon < b.Lon {
		return -1
	}
	if a.Lon > b.Lon {
		return 1
	}
	return 0
}

// EncodePolylines encodes an ordered point sequence. Consecutive duplicate points are dropped, and
// the line is split wherever it would retrace an edge it already covered, so out-and-back shapes
// render as separate segments. Segments with fewer than two points are discarded.
func EncodePolylines(points []CoordinatePoint) []EncodedPolyline {
	out := []EncodedPolyline{}
	flush := func(line [][]float64) {
		if len(line) > 1 {
			encoded := string(polyline.EncodeCoords(line))
			out = append(out, EncodedPolyline{Points: encoded, Length: len(line)})
		}
	}

	edges := make(map[Edge]bool)
	var current [][]float64
	retracing := false
	for i, point := range points {
		if i > 0 {
			prev := points[i-1]
			if prev == point {
				continue
			}
			edge := NewEdge(prev, point)
			switch {
			case edges[edge] && !retracing:
				flush(current)
				current = [][]float64{{prev.Lat, prev.Lon}}
				retracing = true
			case !edges[edge]:
				edges[edge] = true
				retracing = false
			}
		}
		current = append(current, []float64{point.Lat, point.Lon})
	}
	flush(current)
	return out
}
