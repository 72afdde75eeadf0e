package models

// RouteReference describes a route mentioned by a response.
type RouteReference struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agencyId"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Type      int    `json:"type"`
}

// StopReference describes a stop mentioned by a response. Coordinates are omitted when stops.txt
// has none.
type StopReference struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// ReferencesModel References model for related data
type ReferencesModel struct {
	Routes []RouteReference `json:"routes"`
	Stops  []StopReference  `json:"stops"`
}

// NewEmptyReferences creates a new empty References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Routes: []RouteReference{},
		Stops:  []StopReference{},
	}
}
