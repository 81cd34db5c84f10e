// Package web parses web command flags and launches the console server.
package web

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/louisbranch/fleettrack/internal/platform/cmd"
	"github.com/louisbranch/fleettrack/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"FLEETTRACK_WEB_HTTP_ADDR" envDefault:"localhost:8086"`
	BackendURL          string        `env:"FLEETTRACK_WEB_BACKEND_URL" envDefault:"http://localhost:8080/api"`
	BackendTimeout      time.Duration `env:"FLEETTRACK_WEB_BACKEND_TIMEOUT" envDefault:"10s"`
	StoreDriver         string        `env:"FLEETTRACK_WEB_STORE" envDefault:"sqlite"`
	StorePath           string        `env:"FLEETTRACK_WEB_DB_PATH" envDefault:"data/web.db"`
	RedisURL            string        `env:"FLEETTRACK_WEB_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionSecret       string        `env:"FLEETTRACK_WEB_SESSION_SECRET"`
	SessionTTL          time.Duration `env:"FLEETTRACK_WEB_SESSION_TTL" envDefault:"8h"`
	VerifyInterval      time.Duration `env:"FLEETTRACK_WEB_VERIFY_INTERVAL" envDefault:"5m"`
	LoginAdvisoryDelay  time.Duration `env:"FLEETTRACK_WEB_LOGIN_ADVISORY_DELAY" envDefault:"4s"`
	TrackPollInterval   time.Duration `env:"FLEETTRACK_WEB_TRACK_POLL_INTERVAL" envDefault:"5s"`
	GeocoderURL         string        `env:"FLEETTRACK_WEB_GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent   string        `env:"FLEETTRACK_WEB_GEOCODER_USER_AGENT" envDefault:"fleettrack-web/1.0"`
	TileURL             string        `env:"FLEETTRACK_WEB_TILE_URL"`
	TileAttribution     string        `env:"FLEETTRACK_WEB_TILE_ATTRIBUTION"`
	TrustForwardedProto bool          `env:"FLEETTRACK_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Fleet API base URL")
	fs.DurationVar(&cfg.BackendTimeout, "backend-timeout", cfg.BackendTimeout, "Fleet API request timeout")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Session store driver: sqlite, redis or memory")
	fs.StringVar(&cfg.StorePath, "db-path", cfg.StorePath, "SQLite session store path")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis session store URL")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Maximum session lifetime")
	fs.DurationVar(&cfg.VerifyInterval, "verify-interval", cfg.VerifyInterval, "Background session verification interval")
	fs.DurationVar(&cfg.LoginAdvisoryDelay, "login-advisory-delay", cfg.LoginAdvisoryDelay, "Delay before the slow sign-in advisory shows")
	fs.DurationVar(&cfg.TrackPollInterval, "track-poll-interval", cfg.TrackPollInterval, "Live map refresh interval")
	fs.StringVar(&cfg.GeocoderURL, "geocoder-url", cfg.GeocoderURL, "Geocoding service base URL")
	fs.StringVar(&cfg.GeocoderUserAgent, "geocoder-user-agent", cfg.GeocoderUserAgent, "User-Agent sent to the geocoding service")
	fs.StringVar(&cfg.TileURL, "tile-url", cfg.TileURL, "Map tile URL template")
	fs.StringVar(&cfg.TileAttribution, "tile-attribution", cfg.TileAttribution, "Map tile attribution")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for cookie security")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			BackendURL:          cfg.BackendURL,
			BackendTimeout:      cfg.BackendTimeout,
			StoreDriver:         cfg.StoreDriver,
			StorePath:           cfg.StorePath,
			RedisURL:            cfg.RedisURL,
			SessionSecret:       cfg.SessionSecret,
			SessionTTL:          cfg.SessionTTL,
			VerifyInterval:      cfg.VerifyInterval,
			LoginAdvisoryDelay:  cfg.LoginAdvisoryDelay,
			TrackPollInterval:   cfg.TrackPollInterval,
			GeocoderURL:         cfg.GeocoderURL,
			GeocoderUserAgent:   cfg.GeocoderUserAgent,
			TileURL:             cfg.TileURL,
			TileAttribution:     cfg.TileAttribution,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
	})
}
