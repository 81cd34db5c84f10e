package service

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
	records records
}

func newHandlers(r records, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), records: r}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, webtemplates.ServiceForm{}, nil)
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.RequireAdmin(w, r, routepath.AppService) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, webtemplates.ServiceForm{}, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_invalid", "parse form"))
		return
	}
	form := webtemplates.ServiceForm{
		VehicleID:       formvalue.Text(r, "vehicleId"),
		ServiceName:     formvalue.Text(r, "serviceName"),
		ServiceDate:     formvalue.Text(r, "serviceDate"),
		NextServiceDate: formvalue.Text(r, "nextServiceDate"),
		Amount:          formvalue.Text(r, "amount"),
		Notes:           formvalue.Text(r, "notes"),
		Status:          formvalue.Text(r, "status"),
	}
	if err := h.records.create(httpx.RequestContext(r), form); err != nil {
		h.render(w, r, apperrors.HTTPStatus(err), form, err)
		return
	}
	h.Redirect(w, r, routepath.AppService, flashnotice.Success("web.service.created"))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.RequireAdmin(w, r, routepath.AppService) {
		return
	}
	change := recordUpdate{Status: r.FormValue("status")}
	if _, ok := r.PostForm["nextServiceDate"]; ok {
		next := formvalue.Text(r, "nextServiceDate")
		change.NextServiceDate = &next
	}
	if err := h.records.update(httpx.RequestContext(r), r.PathValue("serviceID"), change); err != nil {
		h.render(w, r, apperrors.HTTPStatus(err), webtemplates.ServiceForm{}, err)
		return
	}
	h.Redirect(w, r, routepath.AppService, flashnotice.Success("web.service.updated"))
}

func (h handlers) render(w http.ResponseWriter, r *http.Request, status int, form webtemplates.ServiceForm, actionErr error) {
	if h.HandleAuthFailure(w, r, actionErr) {
		return
	}
	loc := h.Localizer(w, r)
	query := r.URL.Query()
	view, err := h.records.load(httpx.RequestContext(r), h.IsAdmin(r), filter{
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
	view.Now = h.Now()
	view.Form = form
	h.WriteFragment(w, r, webtemplates.T(loc, "web.service.title"), status, webtemplates.ServicePage(view, loc), toasts...)
}
