package modules

import (
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/assignments"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/dashboard"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/profile"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/profiles"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/publicauth"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/service"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/track"
)

// DefaultPublicModules returns the signed-out web modules.
func DefaultPublicModules(deps PublicDependencies) []Module {
	return []Module{
		publicauth.New(deps.Auth),
	}
}

// DefaultProtectedModules returns the authenticated web modules in
// navigation order.
func DefaultProtectedModules(shared module.Dependencies, deps Dependencies) []Module {
	gw := splitBackend(deps.Backend)
	return []Module{
		dashboard.New(shared, gw.dashboard),
		track.New(shared, track.Config{
			Gateway:         gw.track,
			Geocoder:        deps.Geocoder,
			Events:          deps.Events,
			TileURL:         deps.Track.TileURL,
			TileAttribution: deps.Track.TileAttribution,
			PollInterval:    deps.Track.PollInterval,
		}),
		assignments.New(shared, gw.assignments),
		service.New(shared, gw.records),
		profiles.New(shared, gw.directory),
		profile.New(shared, gw.profile),
	}
}

type gateways struct {
	dashboard   dashboard.DashboardGateway
	track       track.TrackingGateway
	assignments assignments.AssignmentGateway
	records     service.RecordGateway
	directory   profiles.DirectoryGateway
	profile     profile.ProfileGateway
}

// splitBackend narrows backend per module. A nil backend leaves every
// gateway nil so each module falls back to its unavailable gateway.
func splitBackend(backend Backend) gateways {
	if backend == nil {
		return gateways{}
	}
	return gateways{
		dashboard:   backend,
		track:       backend,
		assignments: backend,
		records:     backend,
		directory:   backend,
		profile:     backend,
	}
}
