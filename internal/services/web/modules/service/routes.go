package service

import (
	"net/http"

	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppService, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.ServicePrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppService, h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.ServicePrefix+"{$}", h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppServiceRecordUpdatePattern, h.handleUpdate)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppServiceRecordUpdatePattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.ServicePrefix+"{rest...}", h.WriteNotFound)
}
