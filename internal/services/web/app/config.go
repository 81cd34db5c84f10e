package app

import (
	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	Guard            *guard.Guard
	SchemePolicy     requestmeta.SchemePolicy
	PublicModules    []module.Module
	ProtectedModules []module.Module
}
