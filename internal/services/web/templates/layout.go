package templates

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

const (
	htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	stylesheetURL = routepath.StaticPrefix + "app.css"
	appScriptURL  = routepath.StaticPrefix + "app.js"
)

// NavItem is one entry of the app navigation.
type NavItem struct {
	Key    string
	Href   string
	Active bool
}

// Toast is a transient notice rendered with the page.
type Toast struct {
	Kind    string
	Message string
}

// Viewer is the signed-in user shown in the app chrome.
type Viewer struct {
	Name string
	Role string
}

// PageContext provides shared layout context for pages.
type PageContext struct {
	Title        string
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Viewer       Viewer
	Nav          []NavItem
	Toasts       []Toast
	// Scripts are extra script URLs the page needs, loaded after app.js.
	Scripts []string
	Styles  []string
}

// AppLayout renders the full app shell around the children in ctx.
func AppLayout(page PageContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		return document(page, group(
			appHeader(page),
			el("main", attrs(at("id", "main"), class("app-main")), body),
			toastRegion(page.Toasts, false),
		)).Render(ctx, w)
	})
}

// AppFragment renders the HTMX swap for #main: the title, an out-of-band
// toast region and the children in ctx.
func AppFragment(page PageContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		return group(
			el("title", nil, text(pageTitle(page))),
			toastRegion(page.Toasts, true),
			body,
		).Render(ctx, w)
	})
}

// PublicLayout renders signed-out pages such as login.
func PublicLayout(page PageContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		return document(page, group(
			el("main", attrs(at("id", "main"), class("public-main")), body),
			el("footer", attrs(class("public-footer")), languageMenu(page)),
			toastRegion(page.Toasts, false),
		)).Render(ctx, w)
	})
}

func pageTitle(page PageContext) string {
	appName := T(page.Loc, "core.app_name")
	if title := strings.TrimSpace(page.Title); title != "" {
		return title + " | " + appName
	}
	return appName
}

func document(page PageContext, body templ.Component) templ.Component {
	lang := page.Lang
	if lang == "" {
		lang = webi18n.Default().String()
	}
	head := []templ.Component{
		el("meta", attrs(at("charset", "utf-8"))),
		el("meta", attrs(at("name", "viewport"), at("content", "width=device-width, initial-scale=1"))),
		el("title", nil, text(pageTitle(page))),
		el("link", attrs(at("rel", "stylesheet"), at("href", stylesheetURL))),
	}
	for _, href := range page.Styles {
		head = append(head, el("link", attrs(at("rel", "stylesheet"), at("href", href))))
	}
	head = append(head,
		el("script", attrs(at("src", htmxScriptURL), flag("defer", true))),
		el("script", attrs(at("src", appScriptURL), flag("defer", true))),
	)
	for _, src := range page.Scripts {
		head = append(head, el("script", attrs(at("src", src), flag("defer", true))))
	}
	return group(
		doctype,
		el("html", attrs(at("lang", lang)),
			el("head", nil, head...),
			el("body", nil, body),
		),
	)
}

func appHeader(page PageContext) templ.Component {
	return el("header", attrs(class("app-header")),
		el("a", attrs(class("brand"), at("href", routepath.Root)), text(T(page.Loc, "core.app_name"))),
		el("nav", attrs(class("app-nav")),
			each(page.Nav, func(item NavItem) templ.Component {
				return el("a", attrs(
					at("href", item.Href),
					class("nav-link", activeClass(item.Active)),
					when2(item.Active, at("aria-current", "page")),
				), text(T(page.Loc, item.Key)))
			}),
		),
		el("div", attrs(class("app-user")),
			when(page.Viewer.Name != "", el("span", attrs(class("viewer")),
				text(T(page.Loc, "core.nav.signed_in_as", page.Viewer.Name)),
				when(page.Viewer.Role != "", el("span", attrs(class("role")), text(roleLabel(page.Loc, page.Viewer.Role)))),
			)),
			languageMenu(page),
			el("form", attrs(at("method", "post"), at("action", routepath.Logout)),
				el("button", attrs(at("type", "submit"), class("button-link")), text(T(page.Loc, "core.nav.logout"))),
			),
		),
	)
}

func when2(cond bool, a attr) attr {
	if !cond {
		return attr{}
	}
	return a
}

func activeClass(active bool) string {
	if active {
		return "active"
	}
	return ""
}

func roleLabel(loc Localizer, role string) string {
	return T(loc, "core.role."+strings.ToLower(strings.TrimSpace(role)))
}

func languageMenu(page PageContext) templ.Component {
	active := webi18n.Default()
	if tag, ok := webi18n.ParseTag(page.Lang); ok {
		active = tag
	}
	return el("div", attrs(class("lang-menu")),
		each(webi18n.Supported(), func(tag language.Tag) templ.Component {
			return el("a", attrs(
				at("href", LanguageURL(page.CurrentPath, page.CurrentQuery, tag.String())),
				class("lang-option", activeClass(tag == active)),
			), text(T(page.Loc, webi18n.LanguageLabelKey(tag))))
		}),
	)
}

// LanguageURL returns the current URL with the language param replaced.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = routepath.Root
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(webi18n.LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

func toastRegion(toasts []Toast, outOfBand bool) templ.Component {
	return el("div", attrs(
		at("id", "toasts"),
		class("toasts"),
		at("aria-live", "polite"),
		when2(outOfBand, at("hx-swap-oob", "true")),
	), each(toasts, func(toast Toast) templ.Component {
		kind := toast.Kind
		if kind == "" {
			kind = "info"
		}
		return el("div", attrs(class("toast", "toast-"+kind), at("role", "status"), at("data-toast", kind)),
			text(toast.Message),
		)
	}))
}
