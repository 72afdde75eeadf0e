package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCollection is returned when a required file is absent from the feed.
	ErrMissingCollection = errors.New("required collection missing")
	// ErrMissingColumn is wrapped by a SchemaError when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
	// ErrEmptyValue is wrapped by a SchemaError when a required numeric column has an empty cell.
	ErrEmptyValue = errors.New("empty value in required column")
)

// SchemaError is the fatal error raised when a collection does not match its schema. Row is the
// 1-based data row, or 0 when the problem is with the header.
type SchemaError struct {
	Collection string
	Column     string
	Row        int
	Value      string
	Err        error
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("feed: %s column %q: %v", e.Collection, e.Column, e.Err)
	}
	return fmt.Sprintf("feed: %s row %d column %q value %q: %v", e.Collection, e.Row, e.Column, e.Value, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
