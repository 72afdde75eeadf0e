package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Alphanumeric plus underscore, hyphen and dot, as used in GTFS ids and expanded trip ids
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	serviceDatePattern = regexp.MustCompile(`^\d{8}$`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateServiceDate checks the shape of a YYYYMMDD path segment. Calendar validity is left to
// schedule.ParseServiceDate.
func ValidateServiceDate(date string) error {
	if date == "" {
		return errors.New("date cannot be empty")
	}
	if !serviceDatePattern.MatchString(date) {
		return errors.New("invalid date format, use YYYYMMDD")
	}
	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateScheduleParams validates the parameters shared by every schedule endpoint. An empty
// routeID means no route filter.
func ValidateScheduleParams(date, routeID string) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateServiceDate(date); err != nil {
		fieldErrors["date"] = append(fieldErrors["date"], err.Error())
	}

	if routeID != "" {
		if err := ValidateID(routeID); err != nil {
			fieldErrors["routeId"] = append(fieldErrors["routeId"], err.Error())
		}
	}

	return fieldErrors
}
