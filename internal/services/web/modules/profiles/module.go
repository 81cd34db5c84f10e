// Package profiles serves the admin directory of users, drivers and
// vehicles.
package profiles

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Module provides profile directory routes.
type Module struct {
	deps    module.Dependencies
	gateway DirectoryGateway
}

// New returns a profiles module.
func New(deps module.Dependencies, gateway DirectoryGateway) Module {
	return Module{deps: deps, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profiles" }

// Mount wires profile directory route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newDirectory(m.gateway), m.deps))
	return module.Mount{Prefix: routepath.ProfilesPrefix, Handler: mux}, nil
}
