package templates

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// ErrorPageTitle returns the localized title for an error status.
func ErrorPageTitle(status int, loc Localizer) string {
	if status == http.StatusNotFound {
		return T(loc, "web.error.not_found_title")
	}
	return T(loc, "web.error.title")
}

// ErrorState renders the body of an error page.
func ErrorState(status int, message string, loc Localizer) templ.Component {
	if message == "" {
		if status == http.StatusNotFound {
			message = T(loc, "web.error.not_found")
		} else {
			message = T(loc, "web.error.unknown")
		}
	}
	return el("section", attrs(class("error-state"), at("data-status", strconv.Itoa(status))),
		el("h1", nil, text(ErrorPageTitle(status, loc))),
		el("p", nil, text(message)),
		el("a", attrs(at("href", routepath.Root), class("button-link")), text(T(loc, "web.error.back_home"))),
	)
}

// EmptyState renders a placeholder for a list with no rows.
func EmptyState(message string) templ.Component {
	return el("p", attrs(class("empty-state")), text(message))
}
