package guard

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

// AccessDeniedKey is the notice shown once after a role redirect.
const AccessDeniedKey = "web.guard.access_denied"

const defaultStaleAfter = 5 * time.Minute

// State is a step of one guard evaluation.
type State int

const (
	StateUnchecked State = iota
	StateVerifying
	StateAllowed
	StateDeniedRedirect
	StateUnauthenticatedRedirect
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateVerifying:
		return "verifying"
	case StateAllowed:
		return "allowed"
	case StateDeniedRedirect:
		return "denied_redirect"
	case StateUnauthenticatedRedirect:
		return "unauthenticated_redirect"
	default:
		return "unknown"
	}
}

// Sessions is the session store surface the guard needs.
type Sessions interface {
	Get(ctx context.Context, id string) (session.Session, bool)
	Restore(ctx context.Context, id string) (session.Session, session.Outcome, error)
	Verify(ctx context.Context, id string) (session.Outcome, error)
}

// Config wires a Guard.
type Config struct {
	Sessions Sessions
	Policy   Policy
	// StaleAfter is how old a verification may be before the guard verifies
	// synchronously.
	StaleAfter   time.Duration
	SchemePolicy requestmeta.SchemePolicy
	Now          func() time.Time
}

// Guard gates protected pages.
type Guard struct {
	sessions   Sessions
	policy     Policy
	staleAfter time.Duration
	scheme     requestmeta.SchemePolicy
	now        func() time.Time
}

// New builds a Guard. A zero Policy falls back to DefaultPolicy.
func New(cfg Config) *Guard {
	if len(cfg.Policy.rules) == 0 {
		cfg.Policy = DefaultPolicy()
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Guard{
		sessions:   cfg.Sessions,
		policy:     cfg.Policy,
		staleAfter: cfg.StaleAfter,
		scheme:     cfg.SchemePolicy,
		now:        cfg.Now,
	}
}

// Result is the outcome of one evaluation.
type Result struct {
	State    State
	Session  session.Session
	Location string
	// Notice, when set, is flashed before redirecting.
	Notice      *flash.Notice
	ClearCookie bool
	// Verified reports whether the evaluation passed through StateVerifying.
	Verified bool
}

// Evaluate runs the guard state machine for r. There is no retry: a failed
// verification ends in a redirect.
func (g *Guard) Evaluate(r *http.Request) Result {
	if g == nil || g.sessions == nil || r == nil {
		return Result{State: StateUnauthenticatedRedirect, Location: routepath.Login}
	}
	ctx := r.Context()
	next := ReturnPath(r)

	verified := false
	id, ok := sessioncookie.Read(r)
	if !ok {
		return Result{State: StateUnauthenticatedRedirect, Location: routepath.LoginWithNext(next)}
	}

	sess, ok := g.sessions.Get(ctx, id)
	if !ok || !sess.Verified(g.now().Add(-g.staleAfter)) {
		outcome, err := g.verify(ctx, id, ok)
		if err != nil {
			log.Printf("web: guard verify session_id=%s err=%v", id, err)
		}
		if outcome != session.OutcomeValid {
			return unauthenticated(next, outcome)
		}
		if sess, ok = g.sessions.Get(ctx, id); !ok {
			return unauthenticated(next, session.OutcomeStale)
		}
		verified = true
	}

	if !g.policy.Allows(r.URL.Path, sess.Role) {
		notice := flash.Warning(AccessDeniedKey)
		return Result{
			State:    StateDeniedRedirect,
			Session:  sess,
			Location: LandingPath(sess.Role),
			Notice:   &notice,
			Verified: verified,
		}
	}
	return Result{State: StateAllowed, Session: sess, Verified: verified}
}

func (g *Guard) verify(ctx context.Context, id string, live bool) (session.Outcome, error) {
	if live {
		return g.sessions.Verify(ctx, id)
	}
	_, outcome, err := g.sessions.Restore(ctx, id)
	return outcome, err
}

func unauthenticated(next string, outcome session.Outcome) Result {
	result := Result{
		State:       StateUnauthenticatedRedirect,
		Location:    routepath.LoginWithNext(next),
		ClearCookie: true,
		Verified:    true,
	}
	if outcome.Failed() {
		notice := flash.Warning(outcome.Reason().NoticeKey())
		result.Notice = &notice
	}
	return result
}

// Middleware admits allowed requests with the session in context and
// redirects everything else.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := g.Evaluate(r)
		if result.State == StateAllowed {
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), result.Session)))
			return
		}
		if result.ClearCookie {
			sessioncookie.Clear(w, r, g.scheme)
		}
		if result.Notice != nil {
			flash.Write(w, r, *result.Notice, g.scheme)
		}
		httpx.WriteRedirect(w, r, result.Location)
	})
}

// ReturnPath is where login should send the user back to. HTMX fragment
// requests return to the page that issued them.
func ReturnPath(r *http.Request) string {
	if httpx.IsHTMXRequest(r) {
		if current := strings.TrimSpace(r.Header.Get("HX-Current-URL")); current != "" {
			if parsed, err := url.Parse(current); err == nil {
				if local := httpx.LocalPath(parsed.RequestURI()); local != "" {
					return local
				}
			}
		}
	}
	if r.Method != http.MethodGet {
		return ""
	}
	return httpx.LocalPath(r.URL.RequestURI())
}
