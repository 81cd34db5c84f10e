package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// LoginView is the sign-in form state.
type LoginView struct {
	Next     string
	Username string
	// AdvisoryDelayMS is how long a pending sign-in waits before the "taking
	// a while" advisory appears. Zero disables it.
	AdvisoryDelayMS int
}

// LoginPage renders the sign-in form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return el("section", attrs(class("login-card")),
		el("h1", nil, text(T(loc, "web.login.heading", T(loc, "core.app_name")))),
		el("form", attrs(
			at("method", "post"),
			at("action", routepath.Login),
			at("data-login-form", ""),
			at("data-advisory-delay-ms", strconv.Itoa(view.AdvisoryDelayMS)),
			at("data-required-message", T(loc, "web.login.error_required")),
		),
			when(view.Next != "", el("input", attrs(at("type", "hidden"), at("name", routepath.LoginNextQueryKey), at("value", view.Next)))),
			el("label", attrs(at("for", "username")), text(T(loc, "web.login.username"))),
			el("input", attrs(
				at("id", "username"), at("name", "username"), at("type", "text"),
				at("autocomplete", "username"), at("value", view.Username), flag("required", true), flag("autofocus", view.Username == ""),
			)),
			el("label", attrs(at("for", "password")), text(T(loc, "web.login.password"))),
			el("input", attrs(
				at("id", "password"), at("name", "password"), at("type", "password"),
				at("autocomplete", "current-password"), flag("required", true), flag("autofocus", view.Username != ""),
			)),
			el("p", attrs(class("form-error"), at("data-login-error", ""), flag("hidden", true))),
			el("button", attrs(at("type", "submit"), class("button-primary")), text(T(loc, "web.login.submit"))),
			el("p", attrs(class("login-advisory"), at("data-login-advisory", ""), flag("hidden", true)),
				text(T(loc, "web.login.advisory")),
			),
		),
	)
}
