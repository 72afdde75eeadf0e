package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints. Every schedule view is served under
// /api/schedule/:date/<view>.json for a YYYYMMDD date.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))

	views := map[string]scheduleHandlerFunc{
		"services":             api.servicesHandler,
		"tph-by-line":          api.tripsPerHourByLineHandler,
		"tph-by-stop":          api.tripsPerHourByStopHandler,
		"line-times":           api.lineTimesHandler,
		"service-time-by-line": api.serviceTimeByLineHandler,
		"routes-by-stop":       api.routesByStopHandler,
		"total-trips-by-line":  api.totalTripsByLineHandler,
		"patterns":             api.patternsHandler,
		"lines":                api.linesHandler,
		"line-stops":           api.lineStopsHandler,
		"diagnostics":          api.diagnosticsHandler,
	}
	for name, view := range views {
		router.Handler(http.MethodGet, "/api/schedule/:date/"+name+".json", validateAPIKey(api, api.withSchedule(view)))
	}

	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}
}
