package profiles

import (
	"net/http"

	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfiles, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProfilesPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppProfilesCreate, h.handleCreatePerson)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppProfilesVehicleCreate, h.handleCreateVehicle)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppProfilesEntityUpdatePattern, h.handleUpdate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppProfilesEntityDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfilesCreate, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.AppProfilesVehicleCreate, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.ProfilesPrefix+"{rest...}", h.WriteNotFound)
}
