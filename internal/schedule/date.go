package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDate is returned for service dates that are not valid YYYYMMDD calendar dates.
	ErrInvalidDate = errors.New("invalid service date")
	// ErrNoActiveService is wrapped by NoServiceError.
	ErrNoActiveService = errors.New("no service operates on date")
)

// NoServiceError is the fatal error raised when no service identifier is active on the date.
type NoServiceError struct {
	Date int
	Feed string
}

func (e *NoServiceError) Error() string {
	return fmt.Sprintf("%v: feed %q date %d", ErrNoActiveService, e.Feed, e.Date)
}

func (e *NoServiceError) Unwrap() error {
	return ErrNoActiveService
}

// ServiceDate is the day a derivation is computed for.
type ServiceDate struct {
	// Int is the date as YYYYMMDD.
	Int int
	// Weekday is 0 for Monday through 6 for Sunday.
	Weekday int
}

// ParseServiceDate parses an 8-digit YYYYMMDD string. Go's calendar is proleptic Gregorian, so the
// weekday is correct for any year.
func ParseServiceDate(s string) (ServiceDate, error) {
	if len(s) != 8 {
		return ServiceDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return ServiceDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewServiceDate(t), nil
}

// NewServiceDate builds a ServiceDate from the calendar day of t.
func NewServiceDate(t time.Time) ServiceDate {
	return ServiceDate{
		Int:     t.Year()*10000 + int(t.Month())*100 + t.Day(),
		Weekday: (int(t.Weekday()) + 6) % 7,
	}
}

func (d ServiceDate) String() string {
	return fmt.Sprintf("%08d", d.Int)
}
