package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid simple ID",
			id:      "R1",
			wantErr: false,
		},
		{
			name:    "valid expanded trip ID",
			id:      "H1_0600_3",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "R1<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "valid ID with hyphens and dots",
			id:      "route-12.a",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err, "ValidateID should return error for invalid ID")
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err, "ValidateID should not return error for valid ID")
			}
		})
	}
}

func TestValidateServiceDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid date", date: "20240103"},
		{name: "shape only, calendar checked elsewhere", date: "20241399"},
		{name: "empty", date: "", wantErr: true, errMsg: "date cannot be empty"},
		{name: "dashed", date: "2024-01-03", wantErr: true, errMsg: "invalid date format, use YYYYMMDD"},
		{name: "too short", date: "2024013", wantErr: true, errMsg: "invalid date format, use YYYYMMDD"},
		{name: "injection", date: "20240103<script>", wantErr: true, errMsg: "invalid date format, use YYYYMMDD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceDate(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal input unchanged",
			input:    "R1",
			expected: "R1",
		},
		{
			name:     "script tags removed",
			input:    "<script>alert('xss')</script>R1",
			expected: "alert('xss')R1",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  R1 ",
			expected: "R1",
		},
		{
			name:     "only tags",
			input:    "<script></script><div></div>",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeInput(tt.input))
		})
	}
}

func TestValidateScheduleParams(t *testing.T) {
	t.Run("valid without route", func(t *testing.T) {
		assert.Empty(t, ValidateScheduleParams("20240103", ""))
	})

	t.Run("valid with route", func(t *testing.T) {
		assert.Empty(t, ValidateScheduleParams("20240103", "R1"))
	})

	t.Run("both invalid", func(t *testing.T) {
		fieldErrors := ValidateScheduleParams("yesterday", "R1;--")
		assert.Contains(t, fieldErrors, "date")
		assert.Contains(t, fieldErrors, "routeId")
	})
}
