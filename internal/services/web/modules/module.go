// Package modules defines web module registry helpers.
package modules

import (
	"time"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/assignments"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/dashboard"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/profile"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/profiles"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/publicauth"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/service"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/track"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Backend is the fleet API surface the protected modules read through. Each
// module only sees its own narrow gateway interface.
type Backend interface {
	dashboard.DashboardGateway
	track.TrackingGateway
	assignments.AssignmentGateway
	service.RecordGateway
	profiles.DirectoryGateway
	profile.ProfileGateway
}

// TrackOptions configures the live map.
type TrackOptions struct {
	TileURL         string
	TileAttribution string
	PollInterval    time.Duration
}

// Dependencies carries the clients and shared config required to compose
// the web module registry.
type Dependencies struct {
	// Backend is nil when the API is not configured; modules then render
	// their unavailable state.
	Backend  Backend
	Geocoder track.Geocoder
	Events   track.SessionEvents
	Track    TrackOptions
}

// PublicDependencies carries what the signed-out surface needs.
type PublicDependencies struct {
	Auth publicauth.Config
}
