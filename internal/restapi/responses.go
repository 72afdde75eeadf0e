package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"serviceanalyst.onebusaway.org/internal/logging"
	"serviceanalyst.onebusaway.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	setJSONResponseType(&w)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendNotFoundText(w, r, "resource not found")
}

func (api *RestAPI) sendNotFoundText(w http.ResponseWriter, r *http.Request, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(http.StatusNotFound)

	response := models.NewResponse(http.StatusNotFound, nil, text)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.logger(r).Error("failed to encode not found response", "error", err)
	}
}

// logger prefers the request-scoped logger installed by the logging middleware.
func (api *RestAPI) logger(r *http.Request) *slog.Logger {
	if api.Logger == nil {
		return logging.FromContext(r.Context())
	}
	if logger := logging.FromContext(r.Context()); logger != slog.Default() {
		return logger
	}
	return api.Logger
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
