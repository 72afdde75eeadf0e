package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func TestNewResponse(t *testing.T) {
	before := nowMillis()
	response := NewResponse(http.StatusNotFound, nil, "no service operates on date")
	after := nowMillis()

	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.Nil(t, response.Data)
	assert.Equal(t, "no service operates on date", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewEntryResponse(t *testing.T) {
	entry := ServiceDayEntry{Date: "20240103", Weekday: 2, ServiceIDs: []string{"WKDY"}}
	references := NewEmptyReferences()

	response := NewEntryResponse(entry, references)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entry, data["entry"])
	assert.Equal(t, references, data["references"])
}

func TestNewListResponse(t *testing.T) {
	list := []LineEntry{{RepresentativeTripID: "T1", RouteID: "R1"}}
	references := NewEmptyReferences()

	response := NewListResponse(list, references)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, list, data["list"])
	assert.Equal(t, references, data["references"])
	assert.False(t, data["limitExceeded"].(bool))
}

func TestEmptyReferencesEncodeAsArrays(t *testing.T) {
	b, err := json.Marshal(NewEmptyReferences())
	require.NoError(t, err)
	assert.JSONEq(t, `{"routes":[],"stops":[]}`, string(b))
}

func TestStopReferenceOmitsMissingCoordinates(t *testing.T) {
	lat, lon := 40.7, -122.4
	located, err := json.Marshal(StopReference{ID: "A", Name: "First & Main", Lat: &lat, Lon: &lon})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"A","name":"First & Main","lat":40.7,"lon":-122.4}`, string(located))

	unlocated, err := json.Marshal(StopReference{ID: "X", Name: "Depot"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"X","name":"Depot"}`, string(unlocated))
}

func TestHourlyTableEntryJSON(t *testing.T) {
	entry := HourlyTableEntry{
		Columns: []string{"stop_id", "6"},
		Hours:   []int{6},
		Rows:    []HourlyRowEntry{{Key: "A", Counts: []int{2}, Total: 2}},
	}
	b, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["stop_id","6"],"hours":[6],"rows":[{"key":"A","counts":[2],"total":2}]}`, string(b))
}
