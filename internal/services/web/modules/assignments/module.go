// Package assignments lists route assignments and lets admins manage them.
package assignments

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Module provides assignment routes.
type Module struct {
	deps    module.Dependencies
	gateway AssignmentGateway
}

// New returns an assignments module.
func New(deps module.Dependencies, gateway AssignmentGateway) Module {
	return Module{deps: deps, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "assignments" }

// Mount wires assignment route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.gateway), m.deps))
	return module.Mount{Prefix: routepath.AssignmentsPrefix, Handler: mux}, nil
}
