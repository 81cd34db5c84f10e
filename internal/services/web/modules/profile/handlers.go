package profile

import (
	"net/http"
	"strings"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), service: s}
}

func (h handlers) handleSelf(w http.ResponseWriter, r *http.Request) {
	viewer, _ := h.Session(r)
	h.render(w, r, viewer.UserID)
}

// handleOther shows another user's profile to admins. Anyone may open their
// own id.
func (h handlers) handleOther(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userID"))
	viewer, _ := h.Session(r)
	if userID != viewer.UserID && !h.RequireAdmin(w, r, routepath.AppProfile) {
		return
	}
	h.render(w, r, userID)
}

// render writes the profile page. A load failure still answers 200 with the
// error state so the shell and navigation stay usable.
func (h handlers) render(w http.ResponseWriter, r *http.Request, userID string) {
	loc := h.Localizer(w, r)
	profile, err := h.service.load(httpx.RequestContext(r), userID)
	view := webtemplates.ProfileView{Profile: profile}
	var toasts []webtemplates.Toast
	if err != nil {
		if h.HandleAuthFailure(w, r, err) {
			return
		}
		toast := h.ErrorToast(loc, err)
		view.Message = toast.Message
		toasts = append(toasts, toast)
	}
	h.WriteFragment(w, r, webtemplates.T(loc, "web.profile.title"), http.StatusOK, webtemplates.ProfilePage(view, loc), toasts...)
}
