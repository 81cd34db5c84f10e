package profiles

import (
	"context"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
	webtemplates "github.com/louisbranch/fleettrack/internal/services/web/templates"
)

// DirectoryGateway reads and writes profile entities on the backend.
type DirectoryGateway interface {
	ListUsers(ctx context.Context) ([]backend.Person, error)
	ListDrivers(ctx context.Context) ([]backend.Person, error)
	ListVehicles(ctx context.Context) ([]backend.Vehicle, error)
	CreatePerson(ctx context.Context, input backend.PersonInput) (backend.Person, error)
	CreateVehicle(ctx context.Context, input backend.VehicleInput) (backend.Vehicle, error)
	UpdateProfileEntity(ctx context.Context, kind string, id string, fields map[string]string) error
	DeleteProfileEntity(ctx context.Context, kind string, id string) error
}

type directory struct {
	gateway DirectoryGateway
}

type unavailableGateway struct{}

func unavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "profiles backend is not configured")
}

func (unavailableGateway) ListUsers(context.Context) ([]backend.Person, error) { return nil, unavailable() }

func (unavailableGateway) ListDrivers(context.Context) ([]backend.Person, error) {
	return nil, unavailable()
}

func (unavailableGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	return nil, unavailable()
}

func (unavailableGateway) CreatePerson(context.Context, backend.PersonInput) (backend.Person, error) {
	return backend.Person{}, unavailable()
}

func (unavailableGateway) CreateVehicle(context.Context, backend.VehicleInput) (backend.Vehicle, error) {
	return backend.Vehicle{}, unavailable()
}

func (unavailableGateway) UpdateProfileEntity(context.Context, string, string, map[string]string) error {
	return unavailable()
}

func (unavailableGateway) DeleteProfileEntity(context.Context, string, string) error {
	return unavailable()
}

func newDirectory(gateway DirectoryGateway) directory {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return directory{gateway: gateway}
}

// normalizeTab maps unknown tabs to the users tab.
func normalizeTab(tab string) string {
	switch tab = strings.ToLower(strings.TrimSpace(tab)); tab {
	case webtemplates.ProfilesTabDrivers, webtemplates.ProfilesTabVehicles:
		return tab
	default:
		return webtemplates.ProfilesTabUsers
	}
}

func validKind(kind string) bool {
	switch kind {
	case backend.KindUsers, backend.KindDrivers, backend.KindVehicles:
		return true
	}
	return false
}

// load fetches the list behind tab and applies the text query.
func (d directory) load(ctx context.Context, tab string, query string) (webtemplates.ProfilesView, error) {
	view := webtemplates.ProfilesView{Tab: normalizeTab(tab), Query: strings.TrimSpace(query)}
	needle := strings.ToLower(view.Query)
	switch view.Tab {
	case webtemplates.ProfilesTabDrivers:
		drivers, err := d.gateway.ListDrivers(ctx)
		if err != nil {
			return view, err
		}
		view.Drivers = filterPeople(drivers, needle)
	case webtemplates.ProfilesTabVehicles:
		vehicles, err := d.gateway.ListVehicles(ctx)
		if err != nil {
			return view, err
		}
		view.Vehicles = filterVehicles(vehicles, needle)
	default:
		users, err := d.gateway.ListUsers(ctx)
		if err != nil {
			return view, err
		}
		view.Users = filterPeople(users, needle)
	}
	return view, nil
}

func filterPeople(people []backend.Person, needle string) []backend.Person {
	if needle == "" {
		return people
	}
	out := make([]backend.Person, 0, len(people))
	for _, p := range people {
		if containsAny(needle, p.Name, p.Username, p.Email, p.Phone, p.LicenseNumber) {
			out = append(out, p)
		}
	}
	return out
}

func filterVehicles(vehicles []backend.Vehicle, needle string) []backend.Vehicle {
	if needle == "" {
		return vehicles
	}
	out := make([]backend.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if containsAny(needle, v.Name, v.RegistrationNumber, v.Model, v.Type) {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(needle string, candidates ...string) bool {
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return true
		}
	}
	return false
}

// defaultRole is the role preselected for people created from tab.
func defaultRole(tab string) string {
	if tab == webtemplates.ProfilesTabDrivers {
		return "DRIVER"
	}
	return "USER"
}

func (d directory) createPerson(ctx context.Context, tab string, form webtemplates.PersonForm, password string, photo *backend.Photo) error {
	role := strings.ToUpper(strings.TrimSpace(form.Role))
	if role == "" {
		role = defaultRole(tab)
	}
	if !oneOf(role, webtemplates.PersonRoles) {
		return apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_role", "unknown role")
	}
	if strings.TrimSpace(form.Username) == "" || password == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_credentials_required", "username and password are required")
	}
	_, err := d.gateway.CreatePerson(ctx, backend.PersonInput{
		Username: form.Username,
		Password: password,
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Role:     role,
		Photo:    photo,
	})
	return err
}

func parseVehicleForm(form webtemplates.VehicleForm) (backend.VehicleInput, error) {
	input := backend.VehicleInput{
		Name:               strings.TrimSpace(form.Name),
		RegistrationNumber: strings.TrimSpace(form.RegistrationNumber),
		Model:              strings.TrimSpace(form.Model),
		Type:               strings.ToUpper(strings.TrimSpace(form.Type)),
		Status:             strings.ToUpper(strings.TrimSpace(form.Status)),
	}
	if input.Status == "" {
		input.Status = backend.VehicleActive
	}
	if input.Name == "" || input.RegistrationNumber == "" || input.Type == "" {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_vehicle_required", "name, registration and type are required")
	}
	if !oneOf(input.Type, backend.VehicleTypes) {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_vehicle_type", "unknown vehicle type")
	}
	if !oneOf(input.Status, webtemplates.VehicleStatuses) {
		return input, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_status", "unknown status")
	}
	var err error
	if input.Capacity, err = formvalue.Int(form.Capacity); err != nil {
		return input, err
	}
	if input.LastServiceDate, err = formvalue.Date(form.LastServiceDate); err != nil {
		return input, err
	}
	if input.NextServiceDate, err = formvalue.Date(form.NextServiceDate); err != nil {
		return input, err
	}
	return input, nil
}

func (d directory) createVehicle(ctx context.Context, form webtemplates.VehicleForm) error {
	input, err := parseVehicleForm(form)
	if err != nil {
		return err
	}
	_, err = d.gateway.CreateVehicle(ctx, input)
	return err
}

// updateFields keeps the editable fields of kind that were submitted.
func updateFields(kind string, submitted map[string]string) (map[string]string, error) {
	allowed := []string{"name", "status"}
	statuses := webtemplates.UserStatuses
	switch kind {
	case backend.KindUsers:
		allowed = append(allowed, "role")
	case backend.KindDrivers:
		statuses = webtemplates.DriverStatuses
	case backend.KindVehicles:
		allowed = []string{"vehicleName", "model", "status"}
		statuses = webtemplates.VehicleStatuses
	}
	fields := make(map[string]string, len(allowed))
	for _, key := range allowed {
		value := strings.TrimSpace(submitted[key])
		if value == "" {
			continue
		}
		switch key {
		case "status":
			value = strings.ToUpper(value)
			if !oneOf(value, statuses) {
				return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_status", "unknown status")
			}
		case "role":
			value = strings.ToUpper(value)
			if !oneOf(value, webtemplates.PersonRoles) {
				return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_role", "unknown role")
			}
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.profiles.error_nothing_to_update", "no fields to update")
	}
	return fields, nil
}

func (d directory) update(ctx context.Context, kind string, id string, submitted map[string]string) error {
	if !validKind(kind) {
		return apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "unknown profile kind "+kind)
	}
	fields, err := updateFields(kind, submitted)
	if err != nil {
		return err
	}
	return d.gateway.UpdateProfileEntity(ctx, kind, strings.TrimSpace(id), fields)
}

func (d directory) delete(ctx context.Context, kind string, id string) error {
	if !validKind(kind) {
		return apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "unknown profile kind "+kind)
	}
	return d.gateway.DeleteProfileEntity(ctx, kind, strings.TrimSpace(id))
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
