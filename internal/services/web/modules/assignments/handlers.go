package assignments

import (
	"net/http"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
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

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, webtemplates.AssignmentForm{}, nil)
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.RequireAdmin(w, r, routepath.AppAssignments) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, webtemplates.AssignmentForm{}, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_invalid", "parse form"))
		return
	}
	form := webtemplates.AssignmentForm{
		Name:          formvalue.Text(r, "name"),
		VehicleID:     formvalue.Text(r, "vehicleId"),
		DriverID:      formvalue.Text(r, "driverId"),
		StartLocation: formvalue.Text(r, "startLocation"),
		DropLocation:  formvalue.Text(r, "dropLocation"),
		StartLat:      formvalue.Text(r, "startLat"),
		StartLng:      formvalue.Text(r, "startLng"),
		EndLat:        formvalue.Text(r, "endLat"),
		EndLng:        formvalue.Text(r, "endLng"),
		RouteDistance: formvalue.Text(r, "routeDistance"),
		StartTime:     formvalue.Text(r, "startTime"),
		EndTime:       formvalue.Text(r, "endTime"),
	}
	if err := h.service.create(httpx.RequestContext(r), form); err != nil {
		h.render(w, r, apperrors.HTTPStatus(err), form, err)
		return
	}
	h.Redirect(w, r, routepath.AppAssignments, flashnotice.Success("web.assignments.created"))
}

func (h handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !h.RequireAdmin(w, r, routepath.AppAssignments) {
		return
	}
	err := h.service.updateStatus(httpx.RequestContext(r), r.PathValue("assignmentID"), r.FormValue("status"))
	if err != nil {
		h.render(w, r, apperrors.HTTPStatus(err), webtemplates.AssignmentForm{}, err)
		return
	}
	h.Redirect(w, r, routepath.AppAssignments, flashnotice.Success("web.assignments.updated"))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.RequireAdmin(w, r, routepath.AppAssignments) {
		return
	}
	if err := h.service.delete(httpx.RequestContext(r), r.PathValue("assignmentID")); err != nil {
		h.render(w, r, apperrors.HTTPStatus(err), webtemplates.AssignmentForm{}, err)
		return
	}
	h.Redirect(w, r, routepath.AppAssignments, flashnotice.Success("web.assignments.deleted"))
}

// render writes the list page. actionErr is the failure of the submitted
// action, if any; a failed list load adds its own toast.
func (h handlers) render(w http.ResponseWriter, r *http.Request, status int, form webtemplates.AssignmentForm, actionErr error) {
	if h.HandleAuthFailure(w, r, actionErr) {
		return
	}
	loc := h.Localizer(w, r)
	viewer, _ := h.Session(r)
	query := r.URL.Query()
	view, err := h.service.load(httpx.RequestContext(r), viewer, filter{
		Query:  query.Get(routepath.QueryKeySearch),
		Status: query.Get(routepath.QueryKeyStatus),
	})
	var toasts []webtemplates.Toast
	if actionErr != nil {
		toasts = append(toasts, h.ErrorToast(loc, actionErr))
	}
	if err != nil {
		if h.HandleAuthFailure(w, r, err) {
			return
		}
		view.Rows = nil
		if actionErr == nil {
			toasts = append(toasts, h.ErrorToast(loc, err))
		}
	}
	view.Form = form
	h.WriteFragment(w, r, webtemplates.T(loc, "web.assignments.title"), status, webtemplates.AssignmentsPage(view, loc), toasts...)
}
