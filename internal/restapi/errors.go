package restapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"serviceanalyst.onebusaway.org/internal/logging"
	"serviceanalyst.onebusaway.org/internal/models"
	"serviceanalyst.onebusaway.org/internal/schedule"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	response := errorResponse{
		Code:        http.StatusUnauthorized,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "permission denied",
		Version:     1, // version 1, unlike successful responses; kept for client compatibility
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.logger(r).Error("failed to encode invalid API key response", "error", err)
	}
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(r), "request failed", err, slog.String("path", r.URL.Path))

	response := errorResponse{
		Code:        http.StatusInternalServerError,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        "internal server error",
		Version:     1,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusInternalServerError)
	if encoderErr := json.NewEncoder(w).Encode(response); encoderErr != nil {
		api.logger(r).Error("failed to encode server error response", "error", encoderErr)
	}
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.logger(r).Error("failed to encode validation error response", "error", err)
	}
}

// derivationErrorResponse maps an engine error onto a response: dates without active service are
// 404s carrying the reason, malformed dates are field errors, everything else is a 500.
func (api *RestAPI) derivationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var noService *schedule.NoServiceError
	switch {
	case errors.As(err, &noService):
		api.sendNotFoundText(w, r, noService.Error())
	case errors.Is(err, schedule.ErrInvalidDate):
		api.validationErrorResponse(w, r, map[string][]string{"date": {err.Error()}})
	default:
		api.serverErrorResponse(w, r, err)
	}
}
