// Package track serves the live vehicle map and its JSON feeds.
package track

import (
	"net/http"
	"time"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

const (
	defaultPollInterval    = 5 * time.Second
	defaultTileURL         = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	defaultTileAttribution = "&copy; OpenStreetMap contributors &copy; CARTO"
)

// Config wires the track module.
type Config struct {
	Gateway  TrackingGateway
	Geocoder Geocoder
	// Events is optional; without it live feeds end only when the client
	// disconnects.
	Events          SessionEvents
	TileURL         string
	TileAttribution string
	PollInterval    time.Duration
}

// Module provides the track routes.
type Module struct {
	deps module.Dependencies
	cfg  Config
}

// New returns a track module.
func New(deps module.Dependencies, cfg Config) Module {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.TileURL == "" {
		cfg.TileURL = defaultTileURL
	}
	if cfg.TileAttribution == "" {
		cfg.TileAttribution = defaultTileAttribution
	}
	return Module{deps: deps, cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "track" }

// Mount wires track route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.cfg.Gateway, m.cfg.Geocoder), m.cfg, m.deps))
	return module.Mount{Prefix: routepath.TrackPrefix, Handler: mux}, nil
}
