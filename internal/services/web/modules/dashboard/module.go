// Package dashboard serves the admin fleet overview.
package dashboard

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Module provides authenticated dashboard routes.
type Module struct {
	deps    module.Dependencies
	gateway DashboardGateway
}

// New returns a dashboard module reading through gateway.
func New(deps module.Dependencies, gateway DashboardGateway) Module {
	return Module{deps: deps, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "dashboard" }

// Mount wires dashboard route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.gateway), m.deps))
	return module.Mount{Prefix: routepath.DashboardPrefix, Handler: mux}, nil
}
