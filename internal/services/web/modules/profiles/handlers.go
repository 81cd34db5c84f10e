package profiles

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/fleettrack/internal/services/web/platform/flash"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

const (
	maxPhotoBytes     = 5 << 20
	maxMultipartBytes = maxPhotoBytes + 1<<20
)

type handlers struct {
	modulehandler.Base
	directory directory
}

func newHandlers(d directory, deps module.Dependencies) handlers {
	return handlers{Base: modulehandler.NewBase(deps), directory: d}
}

// submission carries a failed form back into the page.
type submission struct {
	tab     string
	person  webtemplates.PersonForm
	vehicle webtemplates.VehicleForm
	err     error
	status  int
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, submission{tab: r.URL.Query().Get(routepath.ProfilesQueryKeyTab), status: http.StatusOK})
}

func (h handlers) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	photo, parseErr := parsePersonRequest(r)
	tab := normalizeTab(r.FormValue(routepath.ProfilesQueryKeyTab))
	if tab == webtemplates.ProfilesTabVehicles {
		tab = webtemplates.ProfilesTabUsers
	}
	form := webtemplates.PersonForm{
		Username: formvalue.Text(r, "username"),
		Name:     formvalue.Text(r, "name"),
		Email:    formvalue.Text(r, "email"),
		Phone:    formvalue.Text(r, "phone"),
		Role:     formvalue.Text(r, "role"),
	}
	err := parseErr
	if err == nil {
		err = h.directory.createPerson(httpx.RequestContext(r), tab, form, r.FormValue("password"), photo)
	}
	if err != nil {
		h.render(w, r, submission{tab: tab, person: form, err: err, status: apperrors.HTTPStatus(err)})
		return
	}
	h.Redirect(w, r, routepath.AppProfilesTab(tab), flashnotice.Success("web.profiles.created"))
}

func (h handlers) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	form := webtemplates.VehicleForm{
		Name:               formvalue.Text(r, "vehicleName"),
		RegistrationNumber: formvalue.Text(r, "registrationNumber"),
		Model:              formvalue.Text(r, "model"),
		Type:               formvalue.Text(r, "type"),
		Capacity:           formvalue.Text(r, "capacity"),
		LastServiceDate:    formvalue.Text(r, "lastServiceDate"),
		NextServiceDate:    formvalue.Text(r, "nextServiceDate"),
		Status:             formvalue.Text(r, "status"),
	}
	if err := h.directory.createVehicle(httpx.RequestContext(r), form); err != nil {
		h.render(w, r, submission{tab: webtemplates.ProfilesTabVehicles, vehicle: form, err: err, status: apperrors.HTTPStatus(err)})
		return
	}
	h.Redirect(w, r, routepath.AppProfilesTab(webtemplates.ProfilesTabVehicles), flashnotice.Success("web.profiles.created"))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if err := r.ParseForm(); err != nil {
		h.render(w, r, submission{tab: kind, err: apperrors.EK(apperrors.KindInvalidInput, "web.form.error_invalid", "parse form"), status: http.StatusBadRequest})
		return
	}
	submitted := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		submitted[key] = r.PostForm.Get(key)
	}
	if err := h.directory.update(httpx.RequestContext(r), kind, r.PathValue("entityID"), submitted); err != nil {
		h.render(w, r, submission{tab: kind, err: err, status: apperrors.HTTPStatus(err)})
		return
	}
	h.Redirect(w, r, routepath.AppProfilesTab(kind), flashnotice.Success("web.profiles.updated"))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if err := h.directory.delete(httpx.RequestContext(r), kind, r.PathValue("entityID")); err != nil {
		h.render(w, r, submission{tab: kind, err: err, status: apperrors.HTTPStatus(err)})
		return
	}
	h.Redirect(w, r, routepath.AppProfilesTab(kind), flashnotice.Success("web.profiles.deleted"))
}

func (h handlers) render(w http.ResponseWriter, r *http.Request, sub submission) {
	if h.HandleAuthFailure(w, r, sub.err) {
		return
	}
	loc := h.Localizer(w, r)
	view, err := h.directory.load(httpx.RequestContext(r), sub.tab, r.URL.Query().Get(routepath.QueryKeySearch))
	var toasts []webtemplates.Toast
	if sub.err != nil {
		toasts = append(toasts, h.ErrorToast(loc, sub.err))
	}
	if err != nil {
		if h.HandleAuthFailure(w, r, err) {
			return
		}
		if sub.err == nil {
			toasts = append(toasts, h.ErrorToast(loc, err))
		}
	}
	view.PersonForm = sub.person
	view.VehicleForm = sub.vehicle
	h.WriteFragment(w, r, webtemplates.T(loc, "web.profiles.title"), sub.status, webtemplates.ProfilesPage(view, loc), toasts...)
}

// parsePersonRequest parses the create form, which arrives as multipart
// when a photo is attached.
func parsePersonRequest(r *http.Request) (*backend.Photo, error) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_photo", "parse upload: "+err.Error())
		}
		if err := r.ParseForm(); err != nil {
			return nil, apperrors.EK(apperrors.KindInvalidInput, "web.form.error_invalid", "parse form")
		}
		return nil, nil
	}
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_photo", "read photo: "+err.Error())
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_photo", "read photo: "+err.Error())
	}
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) > maxPhotoBytes {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_photo", "photo is too large")
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_photo", "photo must be an image")
	}
	return &backend.Photo{Filename: header.Filename, ContentType: contentType, Data: data}, nil
}
