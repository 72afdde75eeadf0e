package restapi

import (
	"serviceanalyst.onebusaway.org/internal/feed"
	"serviceanalyst.onebusaway.org/internal/models"
	"serviceanalyst.onebusaway.org/internal/schedule"
)

// buildReferences lists the routes and stops of a derived schedule, restricted to routeID when set.
func buildReferences(s *schedule.Schedule, routeID string) models.ReferencesModel {
	refs := models.NewEmptyReferences()
	for _, r := range s.Routes() {
		if routeID != "" && r.RouteID != routeID {
			continue
		}
		refs.Routes = append(refs.Routes, routeReference(r))
	}

	var stopIDs map[string]struct{}
	if routeID != "" {
		stopIDs = make(map[string]struct{})
		for _, row := range s.Rows {
			if row.RouteID == routeID {
				stopIDs[row.StopID] = struct{}{}
			}
		}
	}
	for _, stop := range s.Stops() {
		if stopIDs != nil {
			if _, ok := stopIDs[stop.StopID]; !ok {
				continue
			}
		}
		refs.Stops = append(refs.Stops, stopReference(stop))
	}
	return refs
}

func routeReference(r feed.Route) models.RouteReference {
	return models.RouteReference{
		ID:        r.RouteID,
		AgencyID:  r.AgencyID,
		ShortName: r.ShortName,
		LongName:  r.LongName,
		Type:      r.RouteType,
	}
}

func stopReference(s feed.Stop) models.StopReference {
	return models.StopReference{
		ID:   s.StopID,
		Name: s.Name,
		Lat:  s.Latitude,
		Lon:  s.Longitude,
	}
}
