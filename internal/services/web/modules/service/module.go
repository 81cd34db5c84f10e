// Package service serves vehicle maintenance history.
package service

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Module provides service-history routes.
type Module struct {
	deps    module.Dependencies
	gateway RecordGateway
}

// New returns a service-history module.
func New(deps module.Dependencies, gateway RecordGateway) Module {
	return Module{deps: deps, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "service" }

// Mount wires service-history route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newRecords(m.gateway), m.deps))
	return module.Mount{Prefix: routepath.ServicePrefix, Handler: mux}, nil
}
