package templates

import (
	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// AssignmentForm holds submitted create-form values so a failed submit can
// be redisplayed.
type AssignmentForm struct {
	Name          string
	VehicleID     string
	DriverID      string
	StartLocation string
	DropLocation  string
	StartLat      string
	StartLng      string
	EndLat        string
	EndLng        string
	RouteDistance string
	StartTime     string
	EndTime       string
}

// AssignmentsView is the assignments list and, for admins, its forms.
type AssignmentsView struct {
	Rows      []backend.Assignment
	Query     string
	Status    string
	CanManage bool
	Vehicles  []backend.Vehicle
	Drivers   []backend.Person
	Form      AssignmentForm
}

// AssignmentsPage renders the assignments page.
func AssignmentsPage(view AssignmentsView, loc Localizer) templ.Component {
	return group(
		el("h1", nil, text(T(loc, "web.assignments.title"))),
		filterForm(loc, routepath.AppAssignments, view.Query, view.Status, backend.AssignmentStatuses, "web.assignments.search_placeholder"),
		assignmentsTable(view, loc),
		when(view.CanManage, assignmentCreateForm(view, loc)),
	)
}

func filterForm(loc Localizer, action string, query string, status string, statuses []string, placeholderKey string) templ.Component {
	return el("form", attrs(
		class("filter-form"),
		at("method", "get"),
		at("action", action),
		at("hx-get", action),
		at("hx-target", "#main"),
		at("hx-push-url", "true"),
	),
		input("search", routepath.QueryKeySearch, query, false, at("placeholder", T(loc, placeholderKey))),
		selectBox(routepath.QueryKeyStatus, status, statusOptions(loc, statuses, "core.label.all"), false),
		el("button", attrs(at("type", "submit")), text(T(loc, "core.action.filter"))),
	)
}

func assignmentsTable(view AssignmentsView, loc Localizer) templ.Component {
	if len(view.Rows) == 0 {
		return EmptyState(T(loc, "web.assignments.empty"))
	}
	return el("table", attrs(class("data-table"), at("id", "assignments-table")),
		el("thead", nil, el("tr", nil,
			el("th", nil, text(T(loc, "web.assignments.name"))),
			el("th", nil, text(T(loc, "web.assignments.vehicle"))),
			el("th", nil, text(T(loc, "web.assignments.driver"))),
			el("th", nil, text(T(loc, "web.assignments.route"))),
			el("th", nil, text(T(loc, "web.assignments.start_time"))),
			el("th", nil, text(T(loc, "web.assignments.distance"))),
			el("th", nil, text(T(loc, "web.assignments.status"))),
			when(view.CanManage, el("th", nil)),
		)),
		el("tbody", nil, each(view.Rows, func(a backend.Assignment) templ.Component {
			return el("tr", attrs(at("data-row", a.ID)),
				el("td", nil, text(dashIfEmpty(a.Name))),
				el("td", nil, text(a.Vehicle.Label())),
				el("td", nil, text(a.Driver.Label())),
				el("td", nil, text(dashIfEmpty(a.StartLocation)+" → "+dashIfEmpty(a.DropLocation))),
				el("td", nil, text(formatDateTime(a.StartTime))),
				el("td", nil, text(formatDistance(a.RouteDistance))),
				el("td", nil, el("span", attrs(class(statusClass(a.Status))), text(statusLabel(loc, a.Status)))),
				when(view.CanManage, el("td", attrs(class("row-actions")),
					postForm(routepath.AppAssignmentStatus(a.ID), attrs(class("inline-form")),
						selectBox("status", a.Status, statusOptions(loc, backend.AssignmentStatuses, ""), true),
						el("button", attrs(at("type", "submit")), text(T(loc, "core.action.update"))),
					),
					postForm(routepath.AppAssignmentDelete(a.ID), attrs(class("inline-form"), at("hx-confirm", T(loc, "web.assignments.confirm_delete"))),
						el("button", attrs(at("type", "submit"), class("button-danger")), text(T(loc, "core.action.delete"))),
					),
				)),
			)
		})),
	)
}

func assignmentCreateForm(view AssignmentsView, loc Localizer) templ.Component {
	form := view.Form
	vehicles := []option{{value: "", label: T(loc, "web.assignments.pick_vehicle")}}
	for _, v := range view.Vehicles {
		vehicles = append(vehicles, option{value: v.ID, label: v.Label()})
	}
	drivers := []option{{value: "", label: T(loc, "web.assignments.pick_driver")}}
	for _, d := range view.Drivers {
		drivers = append(drivers, option{value: d.ID, label: d.Label()})
	}
	return el("section", attrs(class("panel")),
		el("h2", nil, text(T(loc, "web.assignments.new"))),
		postForm(routepath.AppAssignments, attrs(class("grid-form"), at("data-assignment-form", "")),
			field(T(loc, "web.assignments.name"), input("text", "name", form.Name, true)),
			field(T(loc, "web.assignments.vehicle"), selectBox("vehicleId", form.VehicleID, vehicles, true)),
			field(T(loc, "web.assignments.driver"), selectBox("driverId", form.DriverID, drivers, true)),
			field(T(loc, "web.assignments.start_location"), input("text", "startLocation", form.StartLocation, false, at("data-geocode-target", "start"))),
			field(T(loc, "web.assignments.drop_location"), input("text", "dropLocation", form.DropLocation, false, at("data-geocode-target", "end"))),
			field(T(loc, "web.assignments.start_lat"), input("number", "startLat", form.StartLat, false, at("step", "any"))),
			field(T(loc, "web.assignments.start_lng"), input("number", "startLng", form.StartLng, false, at("step", "any"))),
			field(T(loc, "web.assignments.end_lat"), input("number", "endLat", form.EndLat, false, at("step", "any"))),
			field(T(loc, "web.assignments.end_lng"), input("number", "endLng", form.EndLng, false, at("step", "any"))),
			field(T(loc, "web.assignments.distance"), input("number", "routeDistance", form.RouteDistance, false, at("step", "any"), at("min", "0"))),
			field(T(loc, "web.assignments.start_time"), input("datetime-local", "startTime", form.StartTime, false)),
			field(T(loc, "web.assignments.end_time"), input("datetime-local", "endTime", form.EndTime, false)),
			submit(T(loc, "core.action.create")),
		),
	)
}
