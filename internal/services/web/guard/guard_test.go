package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/secret"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	"github.com/louisbranch/fleettrack/internal/services/web/storage/memory"
)

type countingSessions struct {
	calls atomic.Int32
}

func (c *countingSessions) Get(context.Context, string) (session.Session, bool) {
	c.calls.Add(1)
	return session.Session{}, false
}

func (c *countingSessions) Restore(context.Context, string) (session.Session, session.Outcome, error) {
	c.calls.Add(1)
	return session.Session{}, session.OutcomeMissing, nil
}

func (c *countingSessions) Verify(context.Context, string) (session.Outcome, error) {
	c.calls.Add(1)
	return session.OutcomeMissing, nil
}

type verifyCounter struct {
	calls atomic.Int32
	err   error
	role  session.Role
}

func (v *verifyCounter) Verify(context.Context, string) (session.VerifyResult, error) {
	v.calls.Add(1)
	return session.VerifyResult{Role: v.role}, v.err
}

func newStore(t *testing.T, verifier session.Verifier, now func() time.Time) *session.Store {
	t.Helper()
	store, err := session.NewStore(session.Config{Verifier: verifier, Now: now})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func login(t *testing.T, store *session.Store, role session.Role) session.Session {
	t.Helper()
	sess, err := store.Login(context.Background(), "token", session.Identity{UserID: "1", Username: "u", Role: role}, "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return sess
}

func requestWithSession(method, target, sessionID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: sessionID})
	}
	return req
}

func renderedHandler(rendered *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rendered.Add(1)
		if _, ok := session.FromContext(r.Context()); !ok {
			http.Error(w, "no session in context", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("page body"))
	})
}

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	tests := []struct {
		path  string
		role  session.Role
		allow bool
	}{
		{path: "/app/dashboard", role: session.RoleAdmin, allow: true},
		{path: "/app/dashboard", role: session.RoleDriver, allow: false},
		{path: "/app/track/vehicles", role: session.RoleDriver, allow: false},
		{path: "/app/profiles", role: session.RoleDriver, allow: false},
		{path: "/app/profiles/vehicles/create", role: session.RoleDriver, allow: false},
		{path: "/app/profile", role: session.RoleDriver, allow: true},
		{path: "/app/profile", role: session.RoleAdmin, allow: true},
		{path: "/app/assignments", role: session.RoleDriver, allow: true},
		{path: "/app/service", role: session.RoleDriver, allow: true},
		{path: "/app/trackers", role: session.RoleDriver, allow: true},
	}
	for _, tc := range tests {
		if got := policy.Allows(tc.path, tc.role); got != tc.allow {
			t.Fatalf("Allows(%q, %s) = %v, want %v", tc.path, tc.role, got, tc.allow)
		}
	}
}

func TestLandingPath(t *testing.T) {
	t.Parallel()

	if got := LandingPath(session.RoleAdmin); got != routepath.AppDashboard {
		t.Fatalf("LandingPath(ADMIN) = %q", got)
	}
	if got := LandingPath(session.RoleDriver); got != routepath.AppProfile {
		t.Fatalf("LandingPath(DRIVER) = %q", got)
	}
}

func TestNoCookieRedirectsToLoginWithoutBackendCall(t *testing.T) {
	t.Parallel()

	sessions := &countingSessions{}
	var rendered atomic.Int32
	handler := New(Config{Sessions: sessions}).Middleware(renderedHandler(&rendered))

	for _, path := range []string{"/app/dashboard", "/app/track?focus=7", "/app/profile"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithSession(http.MethodGet, path, ""))

		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: status = %d, want %d", path, rr.Code, http.StatusSeeOther)
		}
		if got, want := rr.Header().Get("Location"), routepath.LoginWithNext(path); got != want {
			t.Fatalf("%s: Location = %q, want %q", path, got, want)
		}
	}
	if sessions.calls.Load() != 0 {
		t.Fatalf("session calls = %d, want 0", sessions.calls.Load())
	}
	if rendered.Load() != 0 {
		t.Fatal("page rendered without a session")
	}
}

func TestDriverRedirectedFromEveryAdminRoute(t *testing.T) {
	t.Parallel()

	store := newStore(t, &verifyCounter{}, nil)
	driver := login(t, store, session.RoleDriver)
	var rendered atomic.Int32
	handler := New(Config{Sessions: store}).Middleware(renderedHandler(&rendered))

	checked := 0
	for _, rule := range DefaultPolicy().Rules() {
		if rule.Admits(session.RoleDriver) {
			continue
		}
		checked++
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestWithSession(http.MethodGet, rule.Prefix, driver.ID))

		if rr.Code != http.StatusSeeOther {
			t.Fatalf("%s: status = %d, want %d", rule.Prefix, rr.Code, http.StatusSeeOther)
		}
		if got := rr.Header().Get("Location"); got != routepath.AppProfile {
			t.Fatalf("%s: Location = %q, want %q", rule.Prefix, got, routepath.AppProfile)
		}
		if rr.Body.Len() > 0 && rr.Body.String() == "page body" {
			t.Fatalf("%s: page body rendered for driver", rule.Prefix)
		}
	}
	if checked != 3 {
		t.Fatalf("admin-only rules = %d, want 3", checked)
	}
	if rendered.Load() != 0 {
		t.Fatalf("rendered = %d, want 0", rendered.Load())
	}
}

func TestAccessDeniedNoticeShownExactlyOnce(t *testing.T) {
	t.Parallel()

	store := newStore(t, &verifyCounter{}, nil)
	driver := login(t, store, session.RoleDriver)
	policy := requestmeta.SchemePolicy{}
	var shown []flash.Notice
	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if notice, ok := flash.ReadAndClear(w, r, policy); ok {
			shown = append(shown, notice)
		}
	})
	handler := New(Config{Sessions: store}).Middleware(page)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithSession(http.MethodGet, "/app/dashboard", driver.ID))
	flashCookie := findCookie(rr.Result().Cookies(), flash.CookieName)
	if flashCookie == nil {
		t.Fatal("expected access denied flash cookie")
	}

	// Follow the redirect with the flash cookie, then render once more with
	// the cookie state the browser would hold afterwards.
	follow := requestWithSession(http.MethodGet, rr.Header().Get("Location"), driver.ID)
	follow.AddCookie(flashCookie)
	followRR := httptest.NewRecorder()
	handler.ServeHTTP(followRR, follow)
	if cleared := findCookie(followRR.Result().Cookies(), flash.CookieName); cleared == nil || cleared.MaxAge >= 0 {
		t.Fatal("expected flash cookie to be cleared on render")
	}

	handler.ServeHTTP(httptest.NewRecorder(), requestWithSession(http.MethodGet, "/app/profile", driver.ID))

	if len(shown) != 1 {
		t.Fatalf("notices shown = %d, want 1", len(shown))
	}
	if shown[0].Key != AccessDeniedKey || shown[0].Kind != flash.KindWarning {
		t.Fatalf("notice = %+v", shown[0])
	}
}

func TestAdminAllowedWithSessionInContext(t *testing.T) {
	t.Parallel()

	store := newStore(t, &verifyCounter{}, nil)
	admin := login(t, store, session.RoleAdmin)
	var rendered atomic.Int32
	handler := New(Config{Sessions: store}).Middleware(renderedHandler(&rendered))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithSession(http.MethodGet, "/app/dashboard", admin.ID))
	if rr.Code != http.StatusOK || rr.Body.String() != "page body" {
		t.Fatalf("response = %d %q", rr.Code, rr.Body.String())
	}
}

func TestFreshSessionSkipsVerification(t *testing.T) {
	t.Parallel()

	verifier := &verifyCounter{}
	store := newStore(t, verifier, nil)
	admin := login(t, store, session.RoleAdmin)

	result := New(Config{Sessions: store}).Evaluate(requestWithSession(http.MethodGet, "/app/track", admin.ID))
	if result.State != StateAllowed || result.Verified {
		t.Fatalf("result = %+v, want allowed without verifying", result)
	}
	if verifier.calls.Load() != 0 {
		t.Fatalf("verify calls = %d, want 0", verifier.calls.Load())
	}
}

func TestStaleSessionVerifiesAndLogsOutOnRejection(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	verifier := &verifyCounter{err: apperrors.E(apperrors.KindUnauthorized, "expired")}
	store := newStore(t, verifier, clock)
	admin := login(t, store, session.RoleAdmin)
	now = now.Add(10 * time.Minute)

	g := New(Config{Sessions: store, StaleAfter: time.Minute, Now: clock})
	rr := httptest.NewRecorder()
	var rendered atomic.Int32
	g.Middleware(renderedHandler(&rendered)).ServeHTTP(rr, requestWithSession(http.MethodGet, "/app/dashboard", admin.ID))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got, want := rr.Header().Get("Location"), routepath.LoginWithNext("/app/dashboard"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
	if verifier.calls.Load() != 1 {
		t.Fatalf("verify calls = %d, want 1", verifier.calls.Load())
	}
	cookie := findCookie(rr.Result().Cookies(), sessioncookie.Name)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatal("expected session cookie to be cleared")
	}
	if findCookie(rr.Result().Cookies(), flash.CookieName) == nil {
		t.Fatal("expected session expired notice")
	}
	if rendered.Load() != 0 {
		t.Fatal("page rendered after failed verification")
	}
	if _, ok := store.Get(context.Background(), admin.ID); ok {
		t.Fatal("session survived failed verification")
	}
}

func TestStaleSessionVerifiesAndRefreshesRole(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	store := newStore(t, &verifyCounter{role: session.RoleDriver}, clock)
	sess := login(t, store, session.RoleAdmin)
	now = now.Add(10 * time.Minute)

	result := New(Config{Sessions: store, StaleAfter: time.Minute, Now: clock}).
		Evaluate(requestWithSession(http.MethodGet, "/app/dashboard", sess.ID))
	if result.State != StateDeniedRedirect || !result.Verified {
		t.Fatalf("result = %+v, want verified denial after demotion", result)
	}
	if result.Location != routepath.AppProfile {
		t.Fatalf("Location = %q", result.Location)
	}
}

func TestUnknownCookieRestoresFromPersistence(t *testing.T) {
	t.Parallel()

	persistence := memory.New()
	sealer, err := secret.NewRandomSealer()
	if err != nil {
		t.Fatalf("NewRandomSealer() error = %v", err)
	}
	before, _ := session.NewStore(session.Config{Persistence: persistence, Sealer: sealer, Verifier: &verifyCounter{}})
	sess := login(t, before, session.RoleAdmin)

	after, _ := session.NewStore(session.Config{Persistence: persistence, Sealer: sealer, Verifier: &verifyCounter{role: session.RoleAdmin}})
	result := New(Config{Sessions: after}).Evaluate(requestWithSession(http.MethodGet, "/app/dashboard", sess.ID))
	if result.State != StateAllowed || !result.Verified {
		t.Fatalf("result = %+v, want allowed after restore", result)
	}
}

func TestUnknownCookieWithoutRecordRedirectsWithoutNotice(t *testing.T) {
	t.Parallel()

	store := newStore(t, &verifyCounter{}, nil)
	rr := httptest.NewRecorder()
	var rendered atomic.Int32
	New(Config{Sessions: store}).Middleware(renderedHandler(&rendered)).
		ServeHTTP(rr, requestWithSession(http.MethodGet, "/app/service", "gone"))

	if got, want := rr.Header().Get("Location"), routepath.LoginWithNext("/app/service"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
	if findCookie(rr.Result().Cookies(), flash.CookieName) != nil {
		t.Fatal("unexpected notice for unknown session")
	}
}

func TestHTMXRedirectUsesHeader(t *testing.T) {
	t.Parallel()

	req := requestWithSession(http.MethodGet, "/app/assignments?status=COMPLETED", "")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Current-URL", "http://example.com/app/assignments")
	rr := httptest.NewRecorder()
	New(Config{Sessions: &countingSessions{}}).Middleware(http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got, want := rr.Header().Get("HX-Redirect"), routepath.LoginWithNext("/app/assignments"); got != want {
		t.Fatalf("HX-Redirect = %q, want %q", got, want)
	}
}

func TestMutationDoesNotReturnToPost(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(Config{Sessions: &countingSessions{}}).Middleware(http.NotFoundHandler()).
		ServeHTTP(rr, requestWithSession(http.MethodPost, "/app/assignments/4/delete", ""))
	if got := rr.Header().Get("Location"); got != routepath.Login {
		t.Fatalf("Location = %q, want %q", got, routepath.Login)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	if StateDeniedRedirect.String() != "denied_redirect" {
		t.Fatalf("String() = %q", StateDeniedRedirect.String())
	}
	if State(99).String() != "unknown" {
		t.Fatalf("String() = %q", State(99).String())
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
