package models

// ServiceDayEntry summarizes one derivation.
type ServiceDayEntry struct {
	Date         string   `json:"date"`
	Weekday      int      `json:"weekday"`
	Feed         string   `json:"feed"`
	DerivationID string   `json:"derivationId"`
	ServiceIDs   []string `json:"serviceIds"`
	TripCount    int      `json:"tripCount"`
	PatternCount int      `json:"patternCount"`
}

// HourlyRowEntry is one keyed row of an hourly pivot.
type HourlyRowEntry struct {
	Key         string `json:"key"`
	RouteID     string `json:"routeId,omitempty"`
	DirectionID string `json:"directionId,omitempty"`
	Counts      []int  `json:"counts"`
	Total       int    `json:"total"`
}

// HourlyTableEntry is an hourly pivot with its column names.
type HourlyTableEntry struct {
	Columns []string         `json:"columns"`
	Hours   []int            `json:"hours"`
	Rows    []HourlyRowEntry `json:"rows"`
}

// EncodedPolyline is a line geometry in Google's encoded polyline format.
type EncodedPolyline struct {
	Points string `json:"points"`
	Length int    `json:"length"`
	Levels string `json:"levels"`
}

// LineEntry is the geometry of a representative trip.
type LineEntry struct {
	RepresentativeTripID string            `json:"representativeTripId"`
	RouteID              string            `json:"routeId"`
	DirectionID          string            `json:"directionId"`
	ShapeID              string            `json:"shapeId"`
	Heading              string            `json:"heading"`
	Polylines            []EncodedPolyline `json:"polylines"`
}
