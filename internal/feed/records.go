// Package feed loads the static GTFS collections consumed by the schedule engine.
//
// Every collection is fully typed by the time it leaves this package: required columns are present,
// numeric columns are coerced, and enumerated values are validated. Optional files that are absent
// from the feed are represented as empty, non-nil slices.
package feed

// Exception types used by calendar_dates.txt.
const (
	ExceptionAdded   = 1
	ExceptionRemoved = 2
)

// CalendarEntry corresponds to a single row in calendar.txt.
type CalendarEntry struct {
	ServiceID string `csv:"service_id,required" validate:"required"`
	Monday    int    `csv:"monday,required" validate:"oneof=0 1"`
	Tuesday   int    `csv:"tuesday,required" validate:"oneof=0 1"`
	Wednesday int    `csv:"wednesday,required" validate:"oneof=0 1"`
	Thursday  int    `csv:"thursday,required" validate:"oneof=0 1"`
	Friday    int    `csv:"friday,required" validate:"oneof=0 1"`
	Saturday  int    `csv:"saturday,required" validate:"oneof=0 1"`
	Sunday    int    `csv:"sunday,required" validate:"oneof=0 1"`
	StartDate int    `csv:"start_date,required" validate:"min=10000101,max=99991231"`
	EndDate   int    `csv:"end_date,required" validate:"min=10000101,max=99991231"`
}

// RunsOn reports whether the weekly pattern includes the weekday, where 0 is Monday and 6 is Sunday.
func (c CalendarEntry) RunsOn(weekday int) bool {
	days := [7]int{c.Monday, c.Tuesday, c.Wednesday, c.Thursday, c.Friday, c.Saturday, c.Sunday}
	if weekday < 0 || weekday >= len(days) {
		return false
	}
	return days[weekday] == 1
}

// Covers reports whether date (YYYYMMDD) lies inside the inclusive start/end range.
func (c CalendarEntry) Covers(date int) bool {
	return c.StartDate <= date && date <= c.EndDate
}

// CalendarDate corresponds to a single row in calendar_dates.txt.
type CalendarDate struct {
	ServiceID     string `csv:"service_id,required" validate:"required"`
	Date          int    `csv:"date,required" validate:"min=10000101,max=99991231"`
	ExceptionType int    `csv:"exception_type,required" validate:"oneof=1 2"`
}

// Route corresponds to a single row in routes.txt.
type Route struct {
	RouteID   string `csv:"route_id,required" validate:"required"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	RouteType int    `csv:"route_type,required" validate:"oneof=0 1 2 3 4 5 6 7 11 12"`
}

// Trip corresponds to a single row in trips.txt.
type Trip struct {
	RouteID     string `csv:"route_id,required" validate:"required"`
	ServiceID   string `csv:"service_id,required" validate:"required"`
	TripID      string `csv:"trip_id,required" validate:"required"`
	Headsign    string `csv:"trip_headsign"`
	DirectionID string `csv:"direction_id" validate:"omitempty,oneof=0 1"`
	BlockID     string `csv:"block_id"`
	ShapeID     string `csv:"shape_id"`
}

// StopTime corresponds to a single row in stop_times.txt. Clock strings are kept raw; hours may
// exceed 23 for service running past midnight.
type StopTime struct {
	TripID        string `csv:"trip_id,required" validate:"required"`
	ArrivalTime   string `csv:"arrival_time,required" validate:"omitempty,gtfstime"`
	DepartureTime string `csv:"departure_time,required" validate:"omitempty,gtfstime"`
	StopID        string `csv:"stop_id,required" validate:"required"`
	StopSequence  int    `csv:"stop_sequence,required" validate:"gte=0"`
}

// Stop corresponds to a single row in stops.txt.
type Stop struct {
	StopID    string   `csv:"stop_id,required" validate:"required"`
	Name      string   `csv:"stop_name"`
	Latitude  *float64 `csv:"stop_lat" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `csv:"stop_lon" validate:"omitempty,gte=-180,lte=180"`
}

// ShapePoint corresponds to a single row in shapes.txt.
type ShapePoint struct {
	ShapeID   string  `csv:"shape_id,required" validate:"required"`
	Latitude  float64 `csv:"shape_pt_lat,required" validate:"gte=-90,lte=90"`
	Longitude float64 `csv:"shape_pt_lon,required" validate:"gte=-180,lte=180"`
	Sequence  int     `csv:"shape_pt_sequence,required" validate:"gte=0"`
}

// Frequency corresponds to a single row in frequencies.txt. The trip it names is a template.
type Frequency struct {
	TripID      string `csv:"trip_id,required" validate:"required"`
	StartTime   string `csv:"start_time,required" validate:"required,gtfstime"`
	EndTime     string `csv:"end_time,required" validate:"required,gtfstime"`
	HeadwaySecs int    `csv:"headway_secs,required" validate:"gt=0"`
	ExactTimes  int    `csv:"exact_times" validate:"omitempty,oneof=0 1"`
}

// Feed holds every record collection of a single static feed. A Feed is never mutated once loaded;
// derivations copy whatever they need to change.
type Feed struct {
	Name          string
	Calendar      []CalendarEntry
	CalendarDates []CalendarDate
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Stops         []Stop
	Shapes        []ShapePoint
	Frequencies   []Frequency
}

// Counts returns the number of rows in each collection, keyed by file name without extension.
func (f *Feed) Counts() map[string]int {
	return map[string]int{
		"calendar":       len(f.Calendar),
		"calendar_dates": len(f.CalendarDates),
		"routes":         len(f.Routes),
		"trips":          len(f.Trips),
		"stop_times":     len(f.StopTimes),
		"stops":          len(f.Stops),
		"shapes":         len(f.Shapes),
		"frequencies":    len(f.Frequencies),
	}
}

// normalize replaces nil collections with empty ones so absent optional files look the same as
// present-but-empty ones.
func (f *Feed) normalize() {
	if f.Calendar == nil {
		f.Calendar = []CalendarEntry{}
	}
	if f.CalendarDates == nil {
		f.CalendarDates = []CalendarDate{}
	}
	if f.Routes == nil {
		f.Routes = []Route{}
	}
	if f.Trips == nil {
		f.Trips = []Trip{}
	}
	if f.StopTimes == nil {
		f.StopTimes = []StopTime{}
	}
	if f.Stops == nil {
		f.Stops = []Stop{}
	}
	if f.Shapes == nil {
		f.Shapes = []ShapePoint{}
	}
	if f.Frequencies == nil {
		f.Frequencies = []Frequency{}
	}
}
