package webui

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"serviceanalyst.onebusaway.org/internal/schedule"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dataTypes = []string{
	"services", "trips", "rows", "patterns",
	"tph-by-line", "tph-by-stop", "line-times", "service-time-by-line",
	"routes-by-stop", "total-trips-by-line", "lines", "line-stops",
	"diagnostics", "feed",
}

type debugData struct {
	Title     string
	Date      string
	DataTypes []string
	Pre       string
}

func writeDebugData(w http.ResponseWriter, status int, date, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Date:      date,
		DataTypes: dataTypes,
		Pre:       spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")
	date := r.URL.Query().Get("date")

	if dataType == "feed" {
		writeDebugData(w, http.StatusOK, date, "Feed - Record Counts", webUI.Engine.Feed().Counts())
		return
	}

	if date == "" {
		writeDebugData(w, http.StatusOK, date, "Choose a service date", map[string]string{
			"error": "Please pass ?date=YYYYMMDD&dataType=<type>.",
		})
		return
	}

	serviceDate, err := schedule.ParseServiceDate(date)
	if err != nil {
		writeDebugData(w, http.StatusBadRequest, date, "Invalid service date", err.Error())
		return
	}

	s, err := webUI.Engine.Derive(serviceDate)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, schedule.ErrNoActiveService) {
			status = http.StatusNotFound
		}
		writeDebugData(w, status, date, "Derivation failed", err.Error())
		return
	}

	var data interface{}
	var title string

	switch dataType {
	case "services":
		data = s.ServiceIDs
		title = "Active Services"
	case "trips":
		data = s.Trips
		title = "Trips"
	case "rows":
		data = s.Rows
		title = "Trip-Stop Table"
	case "patterns":
		data = s.Patterns
		title = "Patterns"
	case "tph-by-line":
		data = s.TripsPerHourByLine()
		title = "Trips per Hour by Line"
	case "tph-by-stop":
		data = s.TripsPerHourByStop()
		title = "Trips per Hour by Stop"
	case "line-times":
		data = s.LineTimes()
		title = "Line Times"
	case "service-time-by-line":
		data = s.ServiceTimeByLine()
		title = "Service Time by Line"
	case "routes-by-stop":
		data = s.RoutesByStop()
		title = "Routes by Stop"
	case "total-trips-by-line":
		data = s.TotalTripsByLine()
		title = "Total Trips by Line"
	case "lines":
		data = s.Lines()
		title = "Lines"
	case "line-stops":
		data = s.LineStops()
		title = "Line Stops"
	case "diagnostics":
		data = s.Diagnostics
		title = "Diagnostics"
	default:
		data = map[string]string{
			"error": "Please use one of the data types listed above.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, http.StatusOK, date, title+" - "+s.Date.String(), data)
}
