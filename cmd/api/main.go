package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"serviceanalyst.onebusaway.org/internal/app"
	"serviceanalyst.onebusaway.org/internal/feed"
	"serviceanalyst.onebusaway.org/internal/logging"
	"serviceanalyst.onebusaway.org/internal/metrics"
	"serviceanalyst.onebusaway.org/internal/restapi"
	"serviceanalyst.onebusaway.org/internal/schedule"
	"serviceanalyst.onebusaway.org/internal/webui"
)

func main() {
	// A missing .env file is fine; the flags and the process environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout io.Writer) (err error) {
	cfg, err := loadConfig(args, getenv, os.Stderr)
	if err != nil {
		return err
	}
	logger, err := cfg.logger(stdout)
	if err != nil {
		return err
	}

	application, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to initialize application", err, slog.String("gtfs", cfg.gtfs))
		return err
	}

	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", application.Config.Port),
		Handler:      routes(application, api),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", application.Config.Env.String())
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	logging.HandleDeferredError(&err, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}, logger, "server_shutdown")
	return err
}

// buildApplication loads the feed and wires the engine, metrics, and configuration together.
func buildApplication(ctx context.Context, cfg config, logger *slog.Logger) (*app.Application, error) {
	appConfig, err := cfg.appConfig()
	if err != nil {
		return nil, err
	}

	f, err := feed.Open(ctx, cfg.gtfs, feed.Options{Lenient: cfg.lenient, Logger: logger})
	if err != nil {
		return nil, err
	}
	if cfg.feedName != "" {
		f.Name = cfg.feedName
	}

	collector := metrics.NewCollector()
	collector.ObserveFeed(f.Counts())

	return &app.Application{
		Config:  appConfig,
		Logger:  logger,
		Engine:  schedule.NewEngine(f, schedule.WithLogger(logger), schedule.WithMetrics(collector)),
		Metrics: collector,
	}, nil
}

// routes mounts the API, the metrics endpoint, and the debug page behind the middleware stack.
func routes(application *app.Application, api *restapi.RestAPI) http.Handler {
	router := httprouter.New()

	api.SetRoutes(router)
	webui.SetWebUIRoutes(router, &webui.WebUI{Application: application})

	return api.Handler(router)
}
