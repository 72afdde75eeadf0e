package utils

import "math"

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingBetweenPoints returns the initial great-circle bearing in degrees [0, 360) from point1 to point2.
func BearingBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// BearingToCompass converts a bearing to an 8-point compass direction
func BearingToCompass(bearing float64) string {
	index := int((bearing+22.5)/45.0) % len(compassPoints)
	return compassPoints[index]
}

// LineHeading is the compass direction from the first to the last point of a line, given as
// parallel latitude and longitude slices. Lines whose ends coincide, or that have fewer than two
// points, have no heading.
func LineHeading(lats, lons []float64) string {
	n := min(len(lats), len(lons))
	if n < 2 {
		return ""
	}
	if lats[0] == lats[n-1] && lons[0] == lons[n-1] {
		return ""
	}
	return BearingToCompass(BearingBetweenPoints(lats[0], lons[0], lats[n-1], lons[n-1]))
}
