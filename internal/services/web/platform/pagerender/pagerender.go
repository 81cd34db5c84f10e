// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
	"github.com/louisbranch/fleettrack/internal/services/web/guard"
	flashnotice "github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// Env is the request-independent rendering configuration.
type Env struct {
	Policy       guard.Policy
	SchemePolicy requestmeta.SchemePolicy
}

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
	Toasts     []webtemplates.Toast
	Scripts    []string
	Styles     []string
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

var navigation = []webtemplates.NavItem{
	{Key: "core.nav.dashboard", Href: routepath.AppDashboard},
	{Key: "core.nav.track", Href: routepath.AppTrack},
	{Key: "core.nav.assignments", Href: routepath.AppAssignments},
	{Key: "core.nav.service", Href: routepath.AppService},
	{Key: "core.nav.profiles", Href: routepath.AppProfiles},
	{Key: "core.nav.profile", Href: routepath.AppProfile},
}

// Navigation returns the app links role may open, marking the one that
// contains currentPath.
func Navigation(policy guard.Policy, role session.Role, currentPath string) []webtemplates.NavItem {
	if len(policy.Rules()) == 0 {
		policy = guard.DefaultPolicy()
	}
	items := make([]webtemplates.NavItem, 0, len(navigation))
	for _, item := range navigation {
		if !policy.Allows(item.Href, role) {
			continue
		}
		item.Active = currentPath == item.Href || strings.HasPrefix(currentPath, item.Href+"/")
		items = append(items, item)
	}
	return items
}

// WriteModulePage writes an app page. HTMX requests receive only the #main
// fragment; full requests get the app shell for the session in context.
func WriteModulePage(w http.ResponseWriter, r *http.Request, env Env, page ModulePage) error {
	if w == nil {
		return nil
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, env.SchemePolicy)
	htmx := httpx.IsHTMXRequest(r)
	pageCtx := pageContext(w, r, env, page, loc, lang, !htmx)
	ctx := templ.WithChildren(httpx.RequestContext(r), fragmentOf(page))

	var buf bytes.Buffer
	if htmx {
		if err := webtemplates.AppFragment(pageCtx).Render(ctx, &buf); err != nil {
			return err
		}
		return writeHTML(w, page.StatusCode, buf.Bytes())
	}
	if sess, ok := session.FromContext(httpx.RequestContext(r)); ok {
		pageCtx.Viewer = webtemplates.Viewer{Name: sess.Name(), Role: string(sess.Role)}
		pageCtx.Nav = Navigation(env.Policy, sess.Role, pageCtx.CurrentPath)
	}
	if err := webtemplates.AppLayout(pageCtx).Render(ctx, &buf); err != nil {
		return err
	}
	return writeHTML(w, page.StatusCode, buf.Bytes())
}

// WritePublicPage writes a signed-out page such as login.
func WritePublicPage(w http.ResponseWriter, r *http.Request, env Env, page ModulePage) error {
	if w == nil {
		return nil
	}
	loc, lang := webi18n.ResolveLocalizer(w, r, env.SchemePolicy)
	pageCtx := pageContext(w, r, env, page, loc, lang, true)
	ctx := templ.WithChildren(httpx.RequestContext(r), fragmentOf(page))

	var buf bytes.Buffer
	if err := webtemplates.PublicLayout(pageCtx).Render(ctx, &buf); err != nil {
		return err
	}
	return writeHTML(w, page.StatusCode, buf.Bytes())
}

// pageContext builds the layout context. The flash notice is consumed only by
// full-page renders so an HTMX swap does not swallow it.
func pageContext(w http.ResponseWriter, r *http.Request, env Env, page ModulePage, loc webi18n.Localizer, lang string, consumeFlash bool) webtemplates.PageContext {
	pageCtx := webtemplates.PageContext{
		Title:   page.Title,
		Lang:    lang,
		Loc:     loc,
		Scripts: page.Scripts,
		Styles:  page.Styles,
	}
	if r != nil && r.URL != nil {
		pageCtx.CurrentPath = r.URL.Path
		pageCtx.CurrentQuery = r.URL.RawQuery
	}
	if consumeFlash {
		if toast := resolveFlashToast(w, r, loc, env.SchemePolicy); toast != nil {
			pageCtx.Toasts = append(pageCtx.Toasts, *toast)
		}
	}
	pageCtx.Toasts = append(pageCtx.Toasts, page.Toasts...)
	return pageCtx
}

func fragmentOf(page ModulePage) templ.Component {
	if page.Fragment == nil {
		return emptyComponent{}
	}
	return page.Fragment
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) error {
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write(body)
	return err
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(webtemplates.T(loc, notice.Key))
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{Kind: string(notice.Kind), Message: message}
}
