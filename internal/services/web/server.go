// Package web hosts the fleet console's browser-facing service.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/fleettrack/internal/platform/timeouts"
	webapp "github.com/louisbranch/fleettrack/internal/services/web/app"
	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/integration/geocode"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/modules"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/publicauth"
	"github.com/louisbranch/fleettrack/internal/services/web/modules/track"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/observability"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/secret"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	webstatic "github.com/louisbranch/fleettrack/internal/services/web/static"
	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
	"github.com/louisbranch/fleettrack/internal/services/web/storage/memory"
	"github.com/louisbranch/fleettrack/internal/services/web/storage/redis"
	"github.com/louisbranch/fleettrack/internal/services/web/storage/sqlite"
	webhttp "github.com/louisbranch/fleettrack/internal/services/web/transport/http"
)

// Store drivers accepted by Config.StoreDriver.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr       string
	BackendURL     string
	BackendTimeout time.Duration
	StoreDriver    string
	StorePath      string
	RedisURL       string
	// SessionSecret keys the token sealer. When empty a random key is used
	// and persisted sessions do not survive a restart.
	SessionSecret       string
	SessionTTL          time.Duration
	VerifyInterval      time.Duration
	LoginAdvisoryDelay  time.Duration
	TrackPollInterval   time.Duration
	GeocoderURL         string
	GeocoderUserAgent   string
	TileURL             string
	TileAttribution     string
	TrustForwardedProto bool
}

// Backend is the full fleet API surface the console drives.
type Backend interface {
	modules.Backend
	publicauth.AuthGateway
}

// Components are the runtime collaborators a handler is composed from.
type Components struct {
	Sessions *session.Store
	// Backend is nil when the API is not configured.
	Backend  Backend
	Geocoder track.Geocoder
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr    string
	httpServer  *http.Server
	monitor     *session.Monitor
	persistence webstorage.SessionStore
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config, c Components) (http.Handler, error) {
	if c.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	schemePolicy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	policy := guard.DefaultPolicy()
	shared := module.Dependencies{
		Sessions:     c.Sessions,
		Policy:       policy,
		SchemePolicy: schemePolicy,
		Now:          time.Now,
	}

	var auth publicauth.AuthGateway
	var fleet modules.Backend
	if c.Backend != nil {
		auth = c.Backend
		fleet = c.Backend
	}
	publicModules := modules.DefaultPublicModules(modules.PublicDependencies{
		Auth: publicauth.Config{
			Gateway:       auth,
			Sessions:      c.Sessions,
			Policy:        policy,
			SchemePolicy:  schemePolicy,
			AdvisoryDelay: cfg.LoginAdvisoryDelay,
		},
	})
	protectedModules := modules.DefaultProtectedModules(shared, modules.Dependencies{
		Backend:  fleet,
		Geocoder: c.Geocoder,
		Events:   c.Sessions,
		Track: modules.TrackOptions{
			TileURL:         cfg.TileURL,
			TileAttribution: cfg.TileAttribution,
			PollInterval:    cfg.TrackPollInterval,
		},
	})

	gate := guard.New(guardConfig(cfg, c.Sessions, policy, schemePolicy))
	h, err := webapp.BuildRootHandler(webapp.Config{
		Guard:            gate,
		SchemePolicy:     schemePolicy,
		PublicModules:    publicModules,
		ProtectedModules: protectedModules,
	})
	if err != nil {
		return nil, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, webhttp.StaticHandler(webstatic.FS))
	rootMux.Handle("/", h)
	return otelhttp.NewHandler(httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(log.Default()),
	), "web"), nil
}

// NewServer validates config, opens the session store and constructs a web
// server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	persistence, cache, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	srv, err := newServer(httpAddr, cfg, persistence, cache)
	if err != nil {
		if persistence != nil {
			_ = persistence.Close()
		}
		return nil, err
	}
	return srv, nil
}

func newServer(httpAddr string, cfg Config, persistence webstorage.SessionStore, cache webstorage.CacheStore) (*Server, error) {
	sealer, err := newSealer(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	// The store verifies through the client and the client reads credentials
	// from the store, so the client is bound after both exist.
	var client *backend.Client
	sessions, err := session.NewStore(sessionConfig(cfg, persistence, sealer,
		session.VerifierFunc(func(ctx context.Context, token string) (session.VerifyResult, error) {
			return verifyWith(ctx, client, token)
		})))
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	client, err = backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Tokens:  backend.TokenSourceFunc(sessions.Credentials),
	})
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}
	geocoder, err := geocode.New(geocode.Config{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.GeocoderUserAgent,
		Cache:     cache,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoder: %w", err)
	}

	handler, err := NewHandler(cfg, Components{
		Sessions: sessions,
		Backend:  client,
		Geocoder: geocoder,
	})
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		monitor:     session.NewMonitor(sessions, cfg.VerifyInterval),
		persistence: persistence,
	}, nil
}

// guardConfig stretches the guard's staleness window to the monitor
// interval so a session the monitor just checked is not verified again.
func guardConfig(cfg Config, sessions *session.Store, policy guard.Policy, scheme requestmeta.SchemePolicy) guard.Config {
	return guard.Config{
		Sessions:     sessions,
		Policy:       policy,
		StaleAfter:   cfg.VerifyInterval,
		SchemePolicy: scheme,
	}
}

func sessionConfig(cfg Config, persistence webstorage.SessionStore, sealer secret.Sealer, verifier session.Verifier) session.Config {
	return session.Config{
		Persistence:   persistence,
		Sealer:        sealer,
		Verifier:      verifier,
		TTL:           cfg.SessionTTL,
		VerifyTimeout: cfg.BackendTimeout,
	}
}

// openStore opens the configured session and cache backend. Both views are
// the same store.
func openStore(ctx context.Context, cfg Config) (webstorage.SessionStore, webstorage.CacheStore, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch driver {
	case "", StoreSQLite:
		store, err := sqlite.Open(cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store, nil
	case StoreRedis:
		store, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, store, nil
	case StoreMemory:
		store := memory.New()
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newSealer(key string) (secret.Sealer, error) {
	if strings.TrimSpace(key) == "" {
		log.Printf("session secret not set; persisted sessions will not survive a restart")
		sealer, err := secret.NewRandomSealer()
		if err != nil {
			return nil, fmt.Errorf("session sealer: %w", err)
		}
		return sealer, nil
	}
	sealer, err := secret.NewAESGCMSealer(key)
	if err != nil {
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	return sealer, nil
}

func verifyWith(ctx context.Context, client *backend.Client, token string) (session.VerifyResult, error) {
	if client == nil {
		return session.VerifyResult{}, apperrors.E(apperrors.KindUnavailable, "backend is not configured")
	}
	result, err := client.Verify(ctx, token)
	if err != nil {
		return session.VerifyResult{}, err
	}
	if !result.Valid {
		return session.VerifyResult{}, apperrors.E(apperrors.KindUnauthorized, "token rejected")
	}
	verified := session.VerifyResult{Username: result.Username}
	if strings.TrimSpace(result.Role) != "" {
		verified.Role = session.ParseRole(result.Role)
	}
	return verified, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server
// stop. The session monitor runs for the same lifetime.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go s.monitor.Run(monitorCtx)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("web listening on %s", s.httpAddr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.persistence != nil {
		if err := s.persistence.Close(); err != nil {
			log.Printf("close session store: %v", err)
		}
	}
}
