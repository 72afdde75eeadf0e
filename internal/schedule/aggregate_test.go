package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviceanalyst.onebusaway.org/internal/feed"
)

func TestTripsPerHourByLine(t *testing.T) {
	s := deriveSample(t, "20240103")
	table := s.TripsPerHourByLine()

	assert.Equal(t, []int{6, 7, 8}, table.Hours)
	assert.Equal(t, []string{"representative_trip_id", "route_id", "direction_id", "6", "7", "8"}, table.Columns())
	assert.Equal(t, []HourlyRow{
		{Key: "H1_1", RouteID: "R2", DirectionID: "0", Counts: []int{3, 0, 0}},
		{Key: "T1", RouteID: "R1", DirectionID: "0", Counts: []int{1, 1, 0}},
		{Key: "T3", RouteID: "R1", DirectionID: "0", Counts: []int{0, 1, 0}},
		{Key: "T4", RouteID: "R1", DirectionID: "1", Counts: []int{0, 0, 1}},
	}, table.Rows)

	assert.Equal(t, 1, table.Count("T1", 7))
	assert.Equal(t, 0, table.Count("T1", 23))
	assert.Equal(t, 0, table.Count("missing", 6))

	// Every trip with a departure is counted exactly once across its line's hours.
	for _, p := range s.Patterns {
		row, ok := table.Row(p.RepresentativeTripID)
		require.True(t, ok)
		assert.Equal(t, len(p.TripIDs), row.Total())
	}
}

func TestTripsPerHourByLine_AttributesComeFromRepresentative(t *testing.T) {
	s := &Schedule{
		Trips: []feed.Trip{
			{RouteID: "R1", TripID: "REP", DirectionID: "0"},
			{RouteID: "R1", TripID: "OTHER", DirectionID: "1"},
		},
		Rows: []TripStop{
			{TripID: "REP", StopID: "A", StopSequence: 1, RouteID: "R1", DirectionID: "0", RepresentativeTripID: "REP"},
			{TripID: "OTHER", StopID: "A", StopSequence: 1, RouteID: "R1", DirectionID: "1", RepresentativeTripID: "REP",
				HasDeparture: true, DepartureMinutes: 420, Hour: 7},
		},
	}

	table := s.TripsPerHourByLine()
	assert.Equal(t, []HourlyRow{
		{Key: "REP", RouteID: "R1", DirectionID: "0", Counts: []int{1}},
	}, table.Rows)
}

func TestTripsPerHourByStop(t *testing.T) {
	s := deriveSample(t, "20240103")
	table := s.TripsPerHourByStop()

	assert.Equal(t, []int{6, 7, 8}, table.Hours)
	assert.Equal(t, []string{"stop_id", "6", "7", "8"}, table.Columns())
	require.Len(t, table.Rows, 6)

	a, ok := table.Row("A")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 1}, a.Counts)
	assert.Empty(t, a.RouteID)

	b, ok := table.Row("B")
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 1}, b.Counts)

	d, ok := table.Row("D")
	require.True(t, ok)
	assert.Equal(t, []int{3, 0, 0}, d.Counts)
}

func TestLineTimes(t *testing.T) {
	s := deriveSample(t, "20240103")

	times := s.LineTimes()
	require.Len(t, times, 7)
	assert.Equal(t, LineTime{
		TripID: "T2", RepresentativeTripID: "T1", RouteID: "R1", DirectionID: "0",
		FirstDeparture: 425, LastDeparture: 445, Minutes: 20,
	}, times[1])

	assert.Equal(t, []LineServiceTime{
		{RepresentativeTripID: "H1_1", RouteID: "R2", DirectionID: "0", Minutes: 36},
		{RepresentativeTripID: "T1", RouteID: "R1", DirectionID: "0", Minutes: 40},
		{RepresentativeTripID: "T3", RouteID: "R1", DirectionID: "0", Minutes: 15},
		{RepresentativeTripID: "T4", RouteID: "R1", DirectionID: "1", Minutes: 20},
	}, s.ServiceTimeByLine())
}

func TestRoutesByStop(t *testing.T) {
	s := deriveSample(t, "20240103")

	assert.Equal(t, []StopRoutes{
		{StopID: "A", RouteIDs: []string{"R1"}},
		{StopID: "B", RouteIDs: []string{"R1"}},
		{StopID: "C", RouteIDs: []string{"R1"}},
		{StopID: "D", RouteIDs: []string{"R2"}},
		{StopID: "E", RouteIDs: []string{"R2"}},
		{StopID: "F", RouteIDs: []string{"R2"}},
	}, s.RoutesByStop())
}

func TestTotalTripsByLine(t *testing.T) {
	s := deriveSample(t, "20240103")

	assert.Equal(t, []LineTripCount{
		{RepresentativeTripID: "H1_1", RouteID: "R2", DirectionID: "0", Trips: 3},
		{RepresentativeTripID: "T1", RouteID: "R1", DirectionID: "0", Trips: 2},
		{RepresentativeTripID: "T3", RouteID: "R1", DirectionID: "0", Trips: 1},
		{RepresentativeTripID: "T4", RouteID: "R1", DirectionID: "1", Trips: 1},
	}, s.TotalTripsByLine())
}

func TestLines(t *testing.T) {
	s := deriveSample(t, "20240103")

	lines := s.Lines()
	require.Len(t, lines, 3, "H1_1 has no shape")
	assert.Equal(t, "T1", lines[0].RepresentativeTripID)
	assert.Equal(t, "Main Street", lines[0].LongName)
	assert.Equal(t, "1", lines[0].ShortName)
	assert.Equal(t, 3, lines[0].RouteType)
	assert.Equal(t, "S1", lines[0].ShapeID)
	assert.Len(t, lines[0].Points, 3)
	assert.Equal(t, "T4", lines[2].RepresentativeTripID)
	assert.Equal(t, "S2", lines[2].ShapeID)
	assert.Len(t, lines[2].Points, 2)

	for i := 1; i < len(lines[0].Points); i++ {
		assert.NotEqual(t, lines[0].Points[i-1], lines[0].Points[i])
	}
}

func TestLineStops(t *testing.T) {
	s := deriveSample(t, "20240103")

	stops := s.LineStops()
	require.Len(t, stops, 11)
	assert.Equal(t, LineStop{
		RepresentativeTripID: "T1", RouteID: "R1", StopID: "A", StopName: "First & Main",
		StopSequence: 1, Latitude: 40.7, Longitude: -122.4,
	}, stops[0])
	assert.Equal(t, "T4", stops[5].RepresentativeTripID)
	assert.Equal(t, "C", stops[5].StopID)
}

func TestHourlyTable_Empty(t *testing.T) {
	s := &Schedule{}
	table := s.TripsPerHourByLine()
	assert.Empty(t, table.Hours)
	assert.Empty(t, table.Rows)
	assert.Equal(t, []string{"representative_trip_id", "route_id", "direction_id"}, table.Columns())
}
