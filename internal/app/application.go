package app

import (
	"log/slog"

	"serviceanalyst.onebusaway.org/internal/appconf"
	"serviceanalyst.onebusaway.org/internal/metrics"
	"serviceanalyst.onebusaway.org/internal/schedule"
)

// Application holds the dependencies shared by the HTTP handlers, helpers, and middleware.
type Application struct {
	Config  Config
	Logger  *slog.Logger
	Engine  *schedule.Engine
	Metrics *metrics.Collector
}

// Config holds the runtime settings of the server, assembled from flags, the environment, and the
// optional YAML file.
type Config struct {
	Port        int
	Env         appconf.Environment
	ApiKeys     []string
	RateLimit   int // requests per second per API key
	Compression appconf.CompressionConfig
}
