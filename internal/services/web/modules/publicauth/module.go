// Package publicauth serves the signed-out surface: login, logout and the
// root redirect.
package publicauth

import (
	"net/http"
	"time"

	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Config wires the public auth module.
type Config struct {
	Gateway      AuthGateway
	Sessions     Sessions
	Policy       guard.Policy
	SchemePolicy requestmeta.SchemePolicy
	// AdvisoryDelay is how long a pending sign-in waits before the page
	// shows the "taking a while" advisory.
	AdvisoryDelay time.Duration
}

// Module provides public auth routes.
type Module struct {
	cfg Config
}

// New returns a public auth module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Mount wires public auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.cfg.Gateway, m.cfg.Sessions), m.cfg))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
