// Package modulehandler provides a composable base for protected web module handlers.
//
// Modules mounted under /app/ share session lookup, localization, page
// rendering and backend auth-failure handling. Module handlers embed Base
// rather than duplicating that scaffold.
package modulehandler

import (
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/pagerender"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/weberror"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// Base carries the shared collaborators used by protected module handlers.
type Base struct {
	deps module.Dependencies
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	if len(deps.Policy.Rules()) == 0 {
		deps.Policy = guard.DefaultPolicy()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Base{deps: deps}
}

// NewTestBase builds a handler base with the default policy and no session
// store, suitable for tests that do not exercise auth failures.
func NewTestBase() Base {
	return NewBase(module.Dependencies{})
}

// Env returns the page rendering environment.
func (b Base) Env() pagerender.Env {
	return pagerender.Env{Policy: b.deps.Policy, SchemePolicy: b.deps.SchemePolicy}
}

// Now returns the current time from the configured clock.
func (b Base) Now() time.Time {
	if b.deps.Now == nil {
		return time.Now()
	}
	return b.deps.Now()
}

// Session returns the session the guard admitted the request with.
func (b Base) Session(r *http.Request) (session.Session, bool) {
	return session.FromContext(httpx.RequestContext(r))
}

// IsAdmin reports whether the request's session has the admin role.
func (b Base) IsAdmin(r *http.Request) bool {
	sess, ok := b.Session(r)
	return ok && sess.Role == session.RoleAdmin
}

// RequireAdmin sends non-admin viewers back to fallback with an access
// notice. It reports whether the request may proceed.
func (b Base) RequireAdmin(w http.ResponseWriter, r *http.Request, fallback string) bool {
	if b.IsAdmin(r) {
		return true
	}
	b.Redirect(w, r, fallback, flashnotice.Warning(guard.AccessDeniedKey))
	return false
}

// Localizer resolves the request localizer.
func (b Base) Localizer(w http.ResponseWriter, r *http.Request) webtemplates.Localizer {
	loc, _ := webi18n.ResolveLocalizer(w, r, b.deps.SchemePolicy)
	return loc
}

// WritePage renders a module page (HTMX-aware).
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.ModulePage) {
	if err := pagerender.WriteModulePage(w, r, b.Env(), page); err != nil {
		log.Printf("web: render %s: %v", requestPath(r), err)
		b.WriteError(w, r, err)
	}
}

// WriteFragment renders fragment as a module page with title and status.
func (b Base) WriteFragment(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component, toasts ...webtemplates.Toast) {
	b.WritePage(w, r, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
		Toasts:     toasts,
	})
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if b.HandleAuthFailure(w, r, err) {
		return
	}
	weberror.WriteModuleError(w, r, err, b.Env())
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, "", b.Env())
}

// ErrorToast builds the error toast for err.
func (b Base) ErrorToast(loc webtemplates.Localizer, err error) webtemplates.Toast {
	return weberror.Toast(loc, err)
}

// HandleAuthFailure ends the session and sends the browser to login when the
// backend rejected the session credentials. It reports whether it wrote a
// response.
func (b Base) HandleAuthFailure(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil || !apperrors.IsAuthFailure(err) {
		return false
	}
	b.EndRejectedSession(r)
	sessioncookie.Clear(w, r, b.deps.SchemePolicy)
	flashnotice.Write(w, r, flashnotice.Warning(session.ReasonExpired.NoticeKey()), b.deps.SchemePolicy)
	httpx.WriteRedirect(w, r, routepath.LoginWithNext(guard.ReturnPath(r)))
	return true
}

// EndRejectedSession tells the session store the backend refused the
// request's credentials.
func (b Base) EndRejectedSession(r *http.Request) {
	sess, ok := b.Session(r)
	if !ok || b.deps.Sessions == nil {
		return
	}
	if err := b.deps.Sessions.NoteUnauthorized(httpx.RequestContext(r), sess.ID); err != nil {
		log.Printf("web: end rejected session: %v", err)
	}
}

// Redirect sends the browser to location with a one-time notice.
func (b Base) Redirect(w http.ResponseWriter, r *http.Request, location string, notice flashnotice.Notice) {
	flashnotice.Write(w, r, notice, b.deps.SchemePolicy)
	httpx.WriteRedirect(w, r, location)
}

// WriteJSON writes a JSON payload, logging encode failures.
func (b Base) WriteJSON(w http.ResponseWriter, r *http.Request, payload any) {
	if err := httpx.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Printf("web: encode %s: %v", requestPath(r), err)
	}
}

// WriteJSONError writes err as a JSON error. Rejected credentials end the
// session and answer 401 so scripts can reload into the login page.
func (b Base) WriteJSONError(w http.ResponseWriter, r *http.Request, err error) {
	loc := b.Localizer(w, r)
	if apperrors.IsAuthFailure(err) {
		b.EndRejectedSession(r)
		sessioncookie.Clear(w, r, b.deps.SchemePolicy)
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, webtemplates.T(loc, session.ReasonExpired.NoticeKey()))
		return
	}
	_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), weberror.PublicMessage(loc, err))
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
