// Package schedule derives the operational schedule of a single service day from a loaded feed.
//
// A derivation is a pipeline of stages, each returning a new value:
//
//	ResolveServices -> FilterRecords -> ExpandFrequencies -> NormalizeStopTimes -> ClusterPatterns
//
// The resulting Schedule owns every derived table and exposes the aggregate views. Derivations share
// nothing mutable, so an Engine may derive several dates concurrently.
package schedule

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"serviceanalyst.onebusaway.org/internal/feed"
	"serviceanalyst.onebusaway.org/internal/logging"
)

// Metrics receives the outcome of every derivation.
type Metrics interface {
	ObserveDerivation(elapsed time.Duration, err error)
	ObserveSchedule(trips, patterns int, diagnostics Diagnostics)
}

// Schedule is the result of one derivation.
type Schedule struct {
	// ID identifies the derivation in logs.
	ID          string
	Feed        string
	Date        ServiceDate
	ServiceIDs  []string
	Trips       []feed.Trip
	Rows        []TripStop
	Patterns    []Pattern
	Diagnostics Diagnostics

	records Records
	stops   []feed.Stop
}

// Routes returns the routes of the active trips.
func (s *Schedule) Routes() []feed.Route {
	return s.records.Routes
}

// Stops returns the stops visited by the derived trips, in stops.txt order.
func (s *Schedule) Stops() []feed.Stop {
	visited := make(map[string]struct{})
	for _, row := range s.Rows {
		visited[row.StopID] = struct{}{}
	}
	var out []feed.Stop
	for _, stop := range s.stops {
		if _, ok := visited[stop.StopID]; ok {
			out = append(out, stop)
		}
	}
	return out
}

// Engine derives schedules from a feed. The feed is only read.
type Engine struct {
	feed    *feed.Feed
	logger  *slog.Logger
	metrics Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for stage and diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics reports derivation outcomes to m.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine returns an Engine over f.
func NewEngine(f *feed.Feed, opts ...Option) *Engine {
	e := &Engine{
		feed:   f,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Feed returns the feed the engine derives from.
func (e *Engine) Feed() *feed.Feed {
	return e.feed
}

// Derive computes the schedule for date. It fails with *NoServiceError when no service runs.
func (e *Engine) Derive(date ServiceDate) (*Schedule, error) {
	start := time.Now()
	id := uuid.NewString()
	logger := e.logger.With(slog.String("derivation_id", id), slog.String("date", date.String()))

	s, err := e.derive(id, date, logger)
	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.ObserveDerivation(elapsed, err)
	}
	if err != nil {
		logging.LogError(logger, "schedule derivation failed", err, slog.String("feed", e.feed.Name))
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.ObserveSchedule(len(s.Trips), len(s.Patterns), s.Diagnostics)
	}

	s.Diagnostics.log(logger)
	logging.LogOperation(logger, "schedule_derived",
		slog.String("feed", e.feed.Name),
		slog.Int("services", len(s.ServiceIDs)),
		slog.Int("trips", len(s.Trips)),
		slog.Int("patterns", len(s.Patterns)),
		slog.Duration("duration", elapsed))
	return s, nil
}

func (e *Engine) derive(id string, date ServiceDate, logger *slog.Logger) (*Schedule, error) {
	services, err := ResolveServices(e.feed, date)
	if err != nil {
		return nil, err
	}
	logger.Debug("services resolved", slog.Any("service_ids", services.Sorted()))

	filtered, orphans := FilterRecords(e.feed, services)
	logger.Debug("records filtered",
		slog.Int("trips", len(filtered.Trips)),
		slog.Int("stop_times", len(filtered.StopTimes)))

	expanded, report := ExpandFrequencies(filtered)
	logger.Debug("frequencies expanded",
		slog.Int("rules", len(filtered.Frequencies)),
		slog.Int("trips", len(expanded.Trips)))

	rows, unmatched := NormalizeStopTimes(expanded)
	rows, patterns := ClusterPatterns(rows)
	logger.Debug("patterns clustered", slog.Int("patterns", len(patterns)))

	withoutShape, repsWithoutShape := shapeGaps(expanded, patterns)
	return &Schedule{
		ID:         id,
		Feed:       e.feed.Name,
		Date:       date,
		ServiceIDs: services.Sorted(),
		Trips:      expanded.Trips,
		Rows:       rows,
		Patterns:   patterns,
		Diagnostics: Diagnostics{
			OrphanStopTimeTrips:             nonNil(orphans),
			UnmatchedTrips:                  nonNil(unmatched),
			SkippedFrequencyRules:           nonNil(report.Skipped),
			IDCollisions:                    nonNil(report.Collisions),
			TripsWithoutDepartures:          tripsWithoutDepartures(rows),
			TripsWithoutShape:               withoutShape,
			RepresentativeTripsWithoutShape: repsWithoutShape,
		},
		records: expanded,
		stops:   e.feed.Stops,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
