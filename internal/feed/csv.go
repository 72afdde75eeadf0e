package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report csv column names instead of Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("csv"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("gtfstime", func(fl validator.FieldLevel) bool {
		_, ok := ParseClock(fl.Field().String())
		return ok
	})
	return v
}

// column describes a struct field bound to a csv column.
type column struct {
	name     string
	required bool
	field    int
}

func columnsOf(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("csv")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		cols = append(cols, column{name: name, required: opts == "required", field: i})
	}
	return cols
}

// decodeCSV reads a whole csv file into a slice of T. Column presence comes from the csv tag and
// value rules from the validate tag; the first violation aborts with a *SchemaError.
func decodeCSV[T any](r io.Reader, collection string) ([]T, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	cols := columnsOf(reflect.TypeFor[T]())

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		header = nil
	} else if err != nil {
		return nil, &SchemaError{Collection: collection, Err: fmt.Errorf("read header: %w", err)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}
	for _, c := range cols {
		if _, ok := positions[c.name]; !ok && c.required {
			return nil, &SchemaError{Collection: collection, Column: c.name, Err: ErrMissingColumn}
		}
	}

	rows := []T{}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SchemaError{Collection: collection, Row: line, Err: err}
		}

		var row T
		value := reflect.ValueOf(&row).Elem()
		raw := func(name string) string {
			pos, ok := positions[name]
			if !ok || pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}
		for _, c := range cols {
			cell := raw(c.name)
			field := value.Field(c.field)
			if cell == "" {
				if c.required && isNumeric(field.Kind()) {
					return nil, &SchemaError{Collection: collection, Column: c.name, Row: line, Err: ErrEmptyValue}
				}
				continue
			}
			if err := setField(field, cell); err != nil {
				return nil, &SchemaError{Collection: collection, Column: c.name, Row: line, Value: cell, Err: err}
			}
		}

		if err := validate.Struct(row); err != nil {
			var fieldErrors validator.ValidationErrors
			if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
				fe := fieldErrors[0]
				return nil, &SchemaError{
					Collection: collection,
					Column:     fe.Field(),
					Row:        line,
					Value:      raw(fe.Field()),
					Err:        fmt.Errorf("failed %q validation", strings.TrimSpace(fe.Tag()+" "+fe.Param())),
				}
			}
			return nil, &SchemaError{Collection: collection, Row: line, Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func setField(field reflect.Value, cell string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(cell)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer")
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		field.SetFloat(f)
	case reflect.Pointer:
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), cell); err != nil {
			return err
		}
		field.Set(elem)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
