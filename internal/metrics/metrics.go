// Package metrics exposes Prometheus metrics for schedule derivations.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"serviceanalyst.onebusaway.org/internal/schedule"
)

type Collector struct {
	reg *prometheus.Registry

	Derivations        *prometheus.CounterVec // outcome label: ok|no_service|error
	DerivationDuration prometheus.Histogram

	DerivedTrips    prometheus.Gauge
	DerivedPatterns prometheus.Gauge

	Diagnostics *prometheus.GaugeVec // kind label

	FeedRecords *prometheus.GaugeVec // collection label
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "service_analyst_derivations_total",
			Help: "Schedule derivations by outcome.",
		}, []string{"outcome"}),
		DerivationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "service_analyst_derivation_duration_seconds",
			Help:    "Duration of schedule derivations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		DerivedTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "service_analyst_derived_trips",
			Help: "Trips in the most recent derivation, after frequency expansion.",
		}),
		DerivedPatterns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "service_analyst_derived_patterns",
			Help: "Patterns in the most recent derivation.",
		}),
		Diagnostics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "service_analyst_diagnostics",
			Help: "Identifiers reported per diagnostic in the most recent derivation.",
		}, []string{"kind"}),
		FeedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "service_analyst_feed_records",
			Help: "Rows loaded per feed collection.",
		}, []string{"collection"}),
	}

	reg.MustRegister(
		c.Derivations, c.DerivationDuration,
		c.DerivedTrips, c.DerivedPatterns,
		c.Diagnostics, c.FeedRecords,
		collectors.NewGoCollector(),
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// ObserveDerivation records the outcome and duration of one derivation.
func (c *Collector) ObserveDerivation(elapsed time.Duration, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, schedule.ErrNoActiveService):
		outcome = "no_service"
	case err != nil:
		outcome = "error"
	}
	c.Derivations.WithLabelValues(outcome).Inc()
	c.DerivationDuration.Observe(elapsed.Seconds())
}

// ObserveSchedule records the size of a successful derivation.
func (c *Collector) ObserveSchedule(trips, patterns int, d schedule.Diagnostics) {
	c.DerivedTrips.Set(float64(trips))
	c.DerivedPatterns.Set(float64(patterns))

	c.Diagnostics.WithLabelValues("orphan_stop_time_trips").Set(float64(len(d.OrphanStopTimeTrips)))
	c.Diagnostics.WithLabelValues("unmatched_trips").Set(float64(len(d.UnmatchedTrips)))
	c.Diagnostics.WithLabelValues("skipped_frequency_rules").Set(float64(len(d.SkippedFrequencyRules)))
	c.Diagnostics.WithLabelValues("id_collisions").Set(float64(len(d.IDCollisions)))
	c.Diagnostics.WithLabelValues("trips_without_departures").Set(float64(len(d.TripsWithoutDepartures)))
	c.Diagnostics.WithLabelValues("trips_without_shape").Set(float64(len(d.TripsWithoutShape)))
	c.Diagnostics.WithLabelValues("representative_trips_without_shape").Set(float64(len(d.RepresentativeTripsWithoutShape)))
}

// ObserveFeed records the row count of every collection in a loaded feed.
func (c *Collector) ObserveFeed(counts map[string]int) {
	for collection, n := range counts {
		c.FeedRecords.WithLabelValues(collection).Set(float64(n))
	}
}

var _ schedule.Metrics = (*Collector)(nil)
