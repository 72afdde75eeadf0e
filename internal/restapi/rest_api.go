package restapi

import (
	"net/http"
	"time"

	"serviceanalyst.onebusaway.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: newRateLimiter(app.Config.RateLimit, time.Second),
	}
}

// Shutdown releases the rate limiter's cleanup goroutine.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}

// Handler wraps the router with the middleware stack. Outermost first: request logging, security
// headers, compression, rate limiting.
func (api *RestAPI) Handler(next http.Handler) http.Handler {
	handler := next
	if api.rateLimiter != nil {
		handler = api.rateLimiter.rateLimitHandler(handler)
	}
	handler = NewCompressionMiddleware(compressionConfigFrom(api.Config.Compression))(handler)
	handler = api.WithSecurityHeaders(handler)
	if api.Logger != nil {
		handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	}
	return handler
}
