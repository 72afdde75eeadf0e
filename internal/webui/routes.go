// Package webui serves a debug page that dumps the tables of a derivation.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"serviceanalyst.onebusaway.org/internal/app"
)

type WebUI struct {
	*app.Application
}

func SetWebUIRoutes(router *httprouter.Router, webUI *WebUI) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
