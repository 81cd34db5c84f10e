package publicauth

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
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

type handlers struct {
	service service
	cfg     Config
}

func newHandlers(s service, cfg Config) handlers {
	if len(cfg.Policy.Rules()) == 0 {
		cfg.Policy = guard.DefaultPolicy()
	}
	return handlers{service: s, cfg: cfg}
}

func (h handlers) env() pagerender.Env {
	return pagerender.Env{Policy: h.cfg.Policy, SchemePolicy: h.cfg.SchemePolicy}
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.currentSession(r); ok {
		httpx.WriteRedirect(w, r, guard.LandingPath(sess.Role))
		return
	}
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := httpx.LocalPath(r.URL.Query().Get(routepath.LoginNextQueryKey))
	if sess, ok := h.currentSession(r); ok {
		httpx.WriteRedirect(w, r, h.destination(sess.Role, next))
		return
	}
	h.renderLogin(w, r, http.StatusOK, webtemplates.LoginView{Next: next})
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, webtemplates.LoginView{}, apperrors.EK(apperrors.KindInvalidInput, "web.login.error_required", "invalid form"))
		return
	}
	view := webtemplates.LoginView{
		Next:     httpx.LocalPath(r.PostFormValue(routepath.LoginNextQueryKey)),
		Username: strings.TrimSpace(r.PostFormValue("username")),
	}
	sess, err := h.service.login(httpx.RequestContext(r), view.Username, r.PostFormValue("password"))
	if err != nil {
		h.renderLoginError(w, r, view, err)
		return
	}
	log.Printf("web: login session_id=%s user_id=%s role=%s", sess.ID, sess.UserID, sess.Role)
	// One session per browser: the cookie is about to point elsewhere.
	if previous, ok := sessioncookie.Read(r); ok && previous != sess.ID {
		if err := h.service.logout(httpx.RequestContext(r), previous); err != nil {
			log.Printf("web: end replaced session session_id=%s err=%v", previous, err)
		}
	}
	sessioncookie.Write(w, r, sess.ID, h.cfg.SchemePolicy)
	flashnotice.Clear(w, r, h.cfg.SchemePolicy)
	httpx.WriteRedirect(w, r, h.destination(sess.Role, view.Next))
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, hasCookie := sessioncookie.Read(r)
	if hasCookie && !h.cfg.SchemePolicy.SameOrigin(r) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	if hasCookie {
		if err := h.service.logout(httpx.RequestContext(r), id); err != nil {
			log.Printf("web: logout session_id=%s err=%v", id, err)
		}
	}
	sessioncookie.Clear(w, r, h.cfg.SchemePolicy)
	flashnotice.Write(w, r, flashnotice.Success(session.ReasonUserLogout.NoticeKey()), h.cfg.SchemePolicy)
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, "", h.env())
}

func (h handlers) currentSession(r *http.Request) (session.Session, bool) {
	id, ok := sessioncookie.Read(r)
	if !ok {
		return session.Session{}, false
	}
	return h.service.current(httpx.RequestContext(r), id)
}

// destination honors next only when role may open it.
func (h handlers) destination(role session.Role, next string) string {
	if next != "" && strings.HasPrefix(next, routepath.AppPrefix) && h.cfg.Policy.Allows(pathOnly(next), role) {
		return next
	}
	return guard.LandingPath(role)
}

func pathOnly(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

func (h handlers) renderLoginError(w http.ResponseWriter, r *http.Request, view webtemplates.LoginView, err error) {
	loc, _ := webi18n.ResolveLocalizer(w, r, h.cfg.SchemePolicy)
	status := apperrors.HTTPStatus(err)
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	h.renderLogin(w, r, status, view, weberror.Toast(loc, err))
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginView, toasts ...webtemplates.Toast) {
	view.AdvisoryDelayMS = int(h.cfg.AdvisoryDelay.Milliseconds())
	loc, _ := webi18n.ResolveLocalizer(w, r, h.cfg.SchemePolicy)
	if err := pagerender.WritePublicPage(w, r, h.env(), pagerender.ModulePage{
		Title:      webtemplates.T(loc, "web.login.submit"),
		StatusCode: status,
		Fragment:   webtemplates.LoginPage(view, loc),
		Toasts:     toasts,
	}); err != nil {
		log.Printf("web: render login: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
