package profile

import (
	"net/http"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfile, h.handleSelf)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProfilePrefix+"{$}", h.handleSelf)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfileOtherPattern, h.handleOther)
	mux.HandleFunc(routepath.ProfilePrefix+"{rest...}", h.WriteNotFound)
}
