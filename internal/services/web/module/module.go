// Package module defines the feature contract used by web composition.
package module

import (
	"context"
	"net/http"
	"time"

	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
)

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// Sessions is the part of the session store module handlers report to.
type Sessions interface {
	// NoteUnauthorized ends a session whose token the backend just
	// rejected.
	NoteUnauthorized(ctx context.Context, sessionID string) error
}

// Dependencies carries the shared collaborators every protected module
// handler needs.
type Dependencies struct {
	Sessions     Sessions
	Policy       guard.Policy
	SchemePolicy requestmeta.SchemePolicy
	Now          func() time.Time
}
