package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// Profile tabs.
const (
	ProfilesTabUsers    = backend.KindUsers
	ProfilesTabDrivers  = backend.KindDrivers
	ProfilesTabVehicles = backend.KindVehicles
)

// Selectable enums of the profile forms.
var (
	PersonRoles     = []string{"ADMIN", "MANAGER", "DRIVER", "USER"}
	UserStatuses    = []string{"ACTIVE", "INACTIVE"}
	DriverStatuses  = []string{"ACTIVE", "ON_TRIP", "OFF_DUTY", "ON_LEAVE", "INACTIVE"}
	VehicleStatuses = []string{backend.VehicleActive, backend.VehicleInactive, backend.VehicleService}
)

// PersonForm holds submitted user or driver values.
type PersonForm struct {
	Username string
	Name     string
	Email    string
	Phone    string
	Role     string
}

// VehicleForm holds submitted vehicle values.
type VehicleForm struct {
	Name               string
	RegistrationNumber string
	Model              string
	Type               string
	Capacity           string
	LastServiceDate    string
	NextServiceDate    string
	Status             string
}

// ProfilesView is the admin profile directory.
type ProfilesView struct {
	Tab         string
	Query       string
	Users       []backend.Person
	Drivers     []backend.Person
	Vehicles    []backend.Vehicle
	PersonForm  PersonForm
	VehicleForm VehicleForm
}

// ProfilesPage renders the tabbed profile directory.
func ProfilesPage(view ProfilesView, loc Localizer) templ.Component {
	tab := view.Tab
	if tab == "" {
		tab = ProfilesTabUsers
	}
	var body templ.Component
	switch tab {
	case ProfilesTabDrivers:
		body = group(peopleTable(loc, tab, view.Drivers, DriverStatuses), personCreateForm(loc, tab, view.PersonForm))
	case ProfilesTabVehicles:
		body = group(vehiclesTable(loc, view.Vehicles), vehicleCreateForm(loc, view.VehicleForm))
	default:
		body = group(peopleTable(loc, tab, view.Users, UserStatuses), personCreateForm(loc, tab, view.PersonForm))
	}
	return group(
		el("h1", nil, text(T(loc, "web.profiles.title"))),
		el("nav", attrs(class("tabs"), at("hx-boost", "true"), at("hx-target", "#main")),
			profilesTab(loc, tab, ProfilesTabUsers),
			profilesTab(loc, tab, ProfilesTabDrivers),
			profilesTab(loc, tab, ProfilesTabVehicles),
		),
		el("form", attrs(class("filter-form"), at("method", "get"), at("action", routepath.AppProfiles),
			at("hx-get", routepath.AppProfiles), at("hx-target", "#main"), at("hx-push-url", "true")),
			el("input", attrs(at("type", "hidden"), at("name", routepath.ProfilesQueryKeyTab), at("value", tab))),
			input("search", routepath.QueryKeySearch, view.Query, false, at("placeholder", T(loc, "web.profiles.search_placeholder"))),
			el("button", attrs(at("type", "submit")), text(T(loc, "core.action.search"))),
		),
		el("section", attrs(at("data-tab", tab)), body),
	)
}

func profilesTab(loc Localizer, active string, tab string) templ.Component {
	return el("a", attrs(
		at("href", routepath.AppProfilesTab(tab)),
		class("tab", activeClass(active == tab)),
		when2(active == tab, at("aria-current", "page")),
	), text(T(loc, "web.profiles.tab."+tab)))
}

func peopleTable(loc Localizer, kind string, people []backend.Person, statuses []string) templ.Component {
	if len(people) == 0 {
		return EmptyState(T(loc, "web.profiles.empty"))
	}
	return el("table", attrs(class("data-table"), at("id", kind+"-table")),
		el("thead", nil, el("tr", nil,
			el("th", nil, text(T(loc, "web.profiles.name"))),
			el("th", nil, text(T(loc, "web.profiles.username"))),
			el("th", nil, text(T(loc, "web.profiles.email"))),
			el("th", nil, text(T(loc, "web.profiles.phone"))),
			el("th", nil, text(T(loc, "web.profiles.role"))),
			el("th", nil, text(T(loc, "web.profiles.status"))),
			el("th", nil),
		)),
		el("tbody", nil, each(people, func(p backend.Person) templ.Component {
			fields := []templ.Component{
				input("text", "name", p.Name, false, at("aria-label", T(loc, "web.profiles.name"))),
				selectBox("status", p.Status, statusOptions(loc, statuses, ""), false),
			}
			if kind == ProfilesTabUsers {
				fields = append(fields, selectBox("role", p.Role, roleOptions(loc), false))
			}
			fields = append(fields, el("button", attrs(at("type", "submit")), text(T(loc, "core.action.save"))))
			return el("tr", attrs(at("data-row", p.ID)),
				el("td", nil, el("a", attrs(at("href", routepath.AppProfileFor(p.ID))), text(p.Label()))),
				el("td", nil, text(dashIfEmpty(p.Username))),
				el("td", nil, text(dashIfEmpty(p.Email))),
				el("td", nil, text(dashIfEmpty(p.Phone))),
				el("td", nil, text(roleText(loc, p.Role))),
				el("td", nil, el("span", attrs(class(statusClass(p.Status))), text(statusLabel(loc, p.Status)))),
				el("td", attrs(class("row-actions")),
					el("details", nil,
						el("summary", nil, text(T(loc, "core.action.edit"))),
						postForm(routepath.AppProfilesEntityUpdate(kind, p.ID), attrs(class("inline-form")), fields...),
					),
					deleteForm(loc, kind, p.ID),
				),
			)
		})),
	)
}

func vehiclesTable(loc Localizer, vehicles []backend.Vehicle) templ.Component {
	if len(vehicles) == 0 {
		return EmptyState(T(loc, "web.profiles.empty"))
	}
	return el("table", attrs(class("data-table"), at("id", "vehicles-table")),
		el("thead", nil, el("tr", nil,
			el("th", nil, text(T(loc, "web.profiles.vehicle_name"))),
			el("th", nil, text(T(loc, "web.profiles.registration"))),
			el("th", nil, text(T(loc, "web.profiles.model"))),
			el("th", nil, text(T(loc, "web.profiles.type"))),
			el("th", nil, text(T(loc, "web.profiles.capacity"))),
			el("th", nil, text(T(loc, "web.profiles.next_service"))),
			el("th", nil, text(T(loc, "web.profiles.status"))),
			el("th", nil),
		)),
		el("tbody", nil, each(vehicles, func(v backend.Vehicle) templ.Component {
			return el("tr", attrs(at("data-row", v.ID)),
				el("td", nil, text(dashIfEmpty(v.Name))),
				el("td", attrs(at("data-registration", v.RegistrationNumber)), text(dashIfEmpty(v.RegistrationNumber))),
				el("td", nil, text(dashIfEmpty(v.Model))),
				el("td", nil, text(vehicleTypeLabel(loc, v.Type))),
				el("td", attrs(class("numeric")), text(strconv.Itoa(v.Capacity))),
				el("td", nil, text(formatDate(v.NextServiceDate))),
				el("td", nil, el("span", attrs(class(statusClass(v.Status))), text(statusLabel(loc, v.Status)))),
				el("td", attrs(class("row-actions")),
					el("details", nil,
						el("summary", nil, text(T(loc, "core.action.edit"))),
						postForm(routepath.AppProfilesEntityUpdate(ProfilesTabVehicles, v.ID), attrs(class("inline-form")),
							input("text", "vehicleName", v.Name, false, at("aria-label", T(loc, "web.profiles.vehicle_name"))),
							input("text", "model", v.Model, false, at("aria-label", T(loc, "web.profiles.model"))),
							selectBox("status", v.Status, statusOptions(loc, VehicleStatuses, ""), false),
							el("button", attrs(at("type", "submit")), text(T(loc, "core.action.save"))),
						),
					),
					deleteForm(loc, ProfilesTabVehicles, v.ID),
				),
			)
		})),
	)
}

func deleteForm(loc Localizer, kind string, id string) templ.Component {
	return postForm(routepath.AppProfilesEntityDelete(kind, id), attrs(class("inline-form"), at("hx-confirm", T(loc, "web.profiles.confirm_delete"))),
		el("button", attrs(at("type", "submit"), class("button-danger")), text(T(loc, "core.action.delete"))),
	)
}

func personCreateForm(loc Localizer, kind string, form PersonForm) templ.Component {
	role := form.Role
	if role == "" {
		role = "USER"
		if kind == ProfilesTabDrivers {
			role = "DRIVER"
		}
	}
	titleKey := "web.profiles.new_user"
	if kind == ProfilesTabDrivers {
		titleKey = "web.profiles.new_driver"
	}
	return el("section", attrs(class("panel")),
		el("h2", nil, text(T(loc, titleKey))),
		postForm(routepath.AppProfilesCreate, attrs(class("grid-form"), at("enctype", "multipart/form-data"), at("hx-encoding", "multipart/form-data")),
			el("input", attrs(at("type", "hidden"), at("name", routepath.ProfilesQueryKeyTab), at("value", kind))),
			field(T(loc, "web.profiles.username"), input("text", "username", form.Username, true, at("autocomplete", "off"))),
			field(T(loc, "web.profiles.password"), input("password", "password", "", true, at("autocomplete", "new-password"))),
			field(T(loc, "web.profiles.name"), input("text", "name", form.Name, false)),
			field(T(loc, "web.profiles.email"), input("email", "email", form.Email, false)),
			field(T(loc, "web.profiles.phone"), input("tel", "phone", form.Phone, false)),
			field(T(loc, "web.profiles.role"), selectBox("role", role, roleOptions(loc), true)),
			field(T(loc, "web.profiles.photo"), el("input", attrs(at("type", "file"), at("name", "photo"), at("accept", "image/*")))),
			submit(T(loc, "core.action.create")),
		),
	)
}

func vehicleCreateForm(loc Localizer, form VehicleForm) templ.Component {
	types := make([]option, 0, len(backend.VehicleTypes))
	for _, kind := range backend.VehicleTypes {
		types = append(types, option{value: kind, label: vehicleTypeLabel(loc, kind)})
	}
	status := form.Status
	if status == "" {
		status = backend.VehicleActive
	}
	return el("section", attrs(class("panel")),
		el("h2", nil, text(T(loc, "web.profiles.new_vehicle"))),
		postForm(routepath.AppProfilesVehicleCreate, attrs(class("grid-form"), at("data-vehicle-form", "")),
			field(T(loc, "web.profiles.vehicle_name"), input("text", "vehicleName", form.Name, true)),
			field(T(loc, "web.profiles.registration"), input("text", "registrationNumber", form.RegistrationNumber, true)),
			field(T(loc, "web.profiles.model"), input("text", "model", form.Model, false)),
			field(T(loc, "web.profiles.type"), selectBox("type", form.Type, types, true)),
			field(T(loc, "web.profiles.capacity"), input("number", "capacity", form.Capacity, false, at("min", "0"))),
			field(T(loc, "web.profiles.last_service"), input("date", "lastServiceDate", form.LastServiceDate, false)),
			field(T(loc, "web.profiles.next_service"), input("date", "nextServiceDate", form.NextServiceDate, false)),
			field(T(loc, "web.profiles.status"), selectBox("status", status, statusOptions(loc, VehicleStatuses, ""), true)),
			submit(T(loc, "core.action.create")),
		),
	)
}

func roleOptions(loc Localizer) []option {
	options := make([]option, 0, len(PersonRoles))
	for _, role := range PersonRoles {
		options = append(options, option{value: role, label: roleText(loc, role)})
	}
	return options
}

func roleText(loc Localizer, role string) string {
	if role == "" {
		return "-"
	}
	return roleLabel(loc, role)
}

func vehicleTypeLabel(loc Localizer, kind string) string {
	if kind == "" {
		return "-"
	}
	key := "core.vehicle_type." + strings.ToLower(kind)
	if label := T(loc, key); label != key {
		return label
	}
	return kind
}
