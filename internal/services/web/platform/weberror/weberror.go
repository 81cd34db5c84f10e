// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/pagerender"
	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe message for err. Backend business
// messages are shown verbatim; everything else is localized.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if message, ok := apperrors.BackendMessage(err); ok {
		return message
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		if localized := strings.TrimSpace(webi18n.T(loc, key)); localized != "" {
			return localized
		}
	}
	return webi18n.T(loc, kindKey(apperrors.KindOf(err)))
}

func kindKey(kind apperrors.Kind) string {
	switch kind {
	case apperrors.KindInvalidInput:
		return "web.error.invalid_input"
	case apperrors.KindNotFound:
		return "web.error.not_found"
	case apperrors.KindUnavailable:
		return "web.error.backend_unavailable"
	default:
		return "web.error.unknown"
	}
}

// Toast builds the error toast shown for err.
func Toast(loc webi18n.Localizer, err error) webtemplates.Toast {
	return webtemplates.Toast{Kind: "error", Message: PublicMessage(loc, err)}
}

// WriteAppError writes a localized app-shell error page for full-page and
// HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, message string, env pagerender.Env) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc, _ := webi18n.ResolveLocalizer(w, r, env.SchemePolicy)
	err := pagerender.WriteModulePage(w, r, env, pagerender.ModulePage{
		Title:      webtemplates.ErrorPageTitle(statusCode, loc),
		StatusCode: statusCode,
		Fragment:   webtemplates.ErrorState(statusCode, message, loc),
	})
	if err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError writes a module-safe localized error response. Not found
// and server failures get the app error page; the rest are plain text.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, env pagerender.Env) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	loc, _ := webi18n.ResolveLocalizer(w, r, env.SchemePolicy)
	message := PublicMessage(loc, err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, message, env)
		return
	}
	http.Error(w, message, statusCode)
}
