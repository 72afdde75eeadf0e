package models

import "time"

// CurrentTimeModel is the server clock, with the service date a client would query for today.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	ServiceDate  string `json:"serviceDate"`
}

// CurrentTimeData Combined data structure for current time endpoint
type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData creates a CurrentTimeData structure based on a provided Time
func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.Format(time.RFC3339),
			Time:         t.UnixNano() / int64(time.Millisecond),
			ServiceDate:  t.Format("20060102"),
		},
		References: NewEmptyReferences(),
	}
}
