package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviceanalyst.onebusaway.org/internal/feed"
	"serviceanalyst.onebusaway.org/internal/logging"
)

func loadSample(t *testing.T) *feed.Feed {
	t.Helper()
	f, err := feed.Open(context.Background(), filepath.Join("..", "..", "testdata", "sample"), feed.Options{})
	require.NoError(t, err)
	return f
}

func deriveSample(t *testing.T, date string, opts ...Option) *Schedule {
	t.Helper()
	s, err := NewEngine(loadSample(t), opts...).Derive(mustDate(t, date))
	require.NoError(t, err)
	return s
}

type recordingMetrics struct {
	mu          sync.Mutex
	derivations int
	failures    int
	trips       int
	patterns    int
}

func (m *recordingMetrics) ObserveDerivation(_ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.derivations++
	if err != nil {
		m.failures++
	}
}

func (m *recordingMetrics) ObserveSchedule(trips, patterns int, _ Diagnostics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = trips
	m.patterns = patterns
}

func TestDerive_Weekday(t *testing.T) {
	s := deriveSample(t, "20240103")

	assert.Equal(t, "sample", s.Feed)
	assert.Equal(t, []string{"WKDY"}, s.ServiceIDs)
	assert.NotEmpty(t, s.ID)

	ids := make([]string, 0, len(s.Trips))
	for _, trip := range s.Trips {
		ids = append(ids, trip.TripID)
	}
	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "H1_1", "H1_2", "H1_3"}, ids)

	require.Len(t, s.Patterns, 4)
	assert.Equal(t, Pattern{RouteID: "R1", RepresentativeTripID: "T1", StopIDs: []string{"A", "B", "C"}, TripIDs: []string{"T1", "T2"}}, s.Patterns[0])
	assert.Equal(t, Pattern{RouteID: "R1", RepresentativeTripID: "T3", StopIDs: []string{"A", "C"}, TripIDs: []string{"T3"}}, s.Patterns[1])
	assert.Equal(t, Pattern{RouteID: "R1", RepresentativeTripID: "T4", StopIDs: []string{"C", "B", "A"}, TripIDs: []string{"T4"}}, s.Patterns[2])
	assert.Equal(t, Pattern{RouteID: "R2", RepresentativeTripID: "H1_1", StopIDs: []string{"D", "E", "F"}, TripIDs: []string{"H1_1", "H1_2", "H1_3"}}, s.Patterns[3])

	var interpolated TripStop
	for _, row := range s.Rows {
		if row.TripID == "T2" && row.StopID == "B" {
			interpolated = row
		}
	}
	assert.Equal(t, 2, interpolated.StopSequence)
	assert.Equal(t, 10, interpolated.OriginalSequence)
	assert.Equal(t, "07:15:00", interpolated.DepartureTime)
	assert.True(t, interpolated.Interpolated)
	assert.Equal(t, "T1", interpolated.RepresentativeTripID)

	assert.Equal(t, Diagnostics{
		OrphanStopTimeTrips:             []string{},
		UnmatchedTrips:                  []string{},
		SkippedFrequencyRules:           []SkippedRule{},
		IDCollisions:                    []string{},
		TripsWithoutDepartures:          []string{},
		TripsWithoutShape:               []string{"H1_1", "H1_2", "H1_3"},
		RepresentativeTripsWithoutShape: []string{"H1_1"},
	}, s.Diagnostics)
}

func TestDerive_Weekend(t *testing.T) {
	s := deriveSample(t, "20240101")

	assert.Equal(t, []string{"WKND"}, s.ServiceIDs)
	require.Len(t, s.Trips, 1)
	assert.Equal(t, "W1", s.Trips[0].TripID)
	require.Len(t, s.Patterns, 1)
	assert.Equal(t, "R3", s.Patterns[0].RouteID)
	assert.Empty(t, s.Diagnostics.TripsWithoutShape)
}

func TestDerive_NoService(t *testing.T) {
	f := loadSample(t)
	f.CalendarDates = append(f.CalendarDates, feed.CalendarDate{ServiceID: "WKDY", Date: 20240103, ExceptionType: feed.ExceptionRemoved})

	var buf bytes.Buffer
	metrics := &recordingMetrics{}
	engine := NewEngine(f, WithLogger(logging.NewStructuredLogger(&buf, slog.LevelDebug)), WithMetrics(metrics))

	s, err := engine.Derive(mustDate(t, "20240103"))
	assert.Nil(t, s)
	var noService *NoServiceError
	require.True(t, errors.As(err, &noService))
	assert.Equal(t, "sample", noService.Feed)
	assert.Equal(t, 1, metrics.failures)
	assert.Contains(t, buf.String(), "schedule derivation failed")
}

func TestDerive_LogsAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	metrics := &recordingMetrics{}
	s := deriveSample(t, "20240103",
		WithLogger(logging.NewStructuredLogger(&buf, slog.LevelInfo)),
		WithMetrics(metrics))

	assert.Equal(t, 1, metrics.derivations)
	assert.Equal(t, 0, metrics.failures)
	assert.Equal(t, 7, metrics.trips)
	assert.Equal(t, 4, metrics.patterns)

	var derived map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "schedule_derived" {
			derived = entry
		}
	}
	require.NotNil(t, derived)
	assert.Equal(t, s.ID, derived["derivation_id"])
	assert.Equal(t, "20240103", derived["date"])
	assert.EqualValues(t, 7, derived["trips"])
	assert.Contains(t, buf.String(), "representative trips without shape")
}

func TestDerive_ConcurrentDates(t *testing.T) {
	engine := NewEngine(loadSample(t))
	dates := []string{"20240103", "20240101", "20240104", "20240106"}

	var wg sync.WaitGroup
	results := make([]*Schedule, len(dates))
	for i, d := range dates {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			date, err := ParseServiceDate(d)
			if err != nil {
				return
			}
			results[i], _ = engine.Derive(date)
		}(i, d)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Len(t, results[0].Trips, 7)
	assert.Len(t, results[1].Trips, 1)
	assert.Len(t, results[2].Trips, 7)
	assert.Equal(t, []string{"WKND"}, results[3].ServiceIDs)
}
