// Package profile serves a signed-in user's own profile.
package profile

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Module provides profile routes.
type Module struct {
	deps    module.Dependencies
	gateway ProfileGateway
}

// New returns a profile module.
func New(deps module.Dependencies, gateway ProfileGateway) Module {
	return Module{deps: deps, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Mount wires profile route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.gateway), m.deps))
	return module.Mount{Prefix: routepath.ProfilePrefix, Handler: mux}, nil
}
