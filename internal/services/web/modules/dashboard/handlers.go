package dashboard

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/modulehandler"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	view, err := h.service.load(httpx.RequestContext(r), h.Now())
	var toasts []webtemplates.Toast
	if err != nil {
		if h.HandleAuthFailure(w, r, err) {
			return
		}
		toasts = append(toasts, h.ErrorToast(loc, err))
	}
	h.WriteFragment(w, r, webtemplates.T(loc, "web.dashboard.title"), http.StatusOK, webtemplates.DashboardPage(view, loc), toasts...)
}
