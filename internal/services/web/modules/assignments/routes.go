package assignments

import (
	"net/http"

	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppAssignments, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.AssignmentsPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppAssignments, h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AssignmentsPrefix+"{$}", h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppAssignmentStatusPattern, h.handleStatus)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppAssignmentDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppAssignmentStatusPattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.AppAssignmentDeletePattern, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.AssignmentsPrefix+"{rest...}", h.WriteNotFound)
}
