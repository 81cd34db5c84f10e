package templates

import (
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/formvalue"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// ServiceForm holds submitted service-record values.
type ServiceForm struct {
	VehicleID       string
	ServiceName     string
	ServiceDate     string
	NextServiceDate string
	Amount          string
	Notes           string
	Status          string
}

// ServiceView is the service-history page.
type ServiceView struct {
	Now       time.Time
	Rows      []backend.ServiceRecord
	Query     string
	Status    string
	CanManage bool
	Vehicles  []backend.Vehicle
	Form      ServiceForm
}

// ServicePage renders the service-history page.
func ServicePage(view ServiceView, loc Localizer) templ.Component {
	return group(
		el("h1", nil, text(T(loc, "web.service.title"))),
		filterForm(loc, routepath.AppService, view.Query, view.Status, backend.ServiceStatuses, "web.service.search_placeholder"),
		serviceTable(view, loc),
		when(view.CanManage, serviceCreateForm(view, loc)),
	)
}

func serviceTable(view ServiceView, loc Localizer) templ.Component {
	if len(view.Rows) == 0 {
		return EmptyState(T(loc, "web.service.empty"))
	}
	return el("table", attrs(class("data-table"), at("id", "service-table")),
		el("thead", nil, el("tr", nil,
			el("th", nil, text(T(loc, "web.service.vehicle"))),
			el("th", nil, text(T(loc, "web.service.name"))),
			el("th", nil, text(T(loc, "web.service.date"))),
			el("th", nil, text(T(loc, "web.service.next"))),
			el("th", nil, text(T(loc, "web.service.amount"))),
			el("th", nil, text(T(loc, "web.service.status"))),
			when(view.CanManage, el("th", nil)),
		)),
		el("tbody", nil, each(view.Rows, func(record backend.ServiceRecord) templ.Component {
			return el("tr", attrs(at("data-row", record.ID)),
				el("td", nil, text(record.Vehicle.Label())),
				el("td", nil,
					text(dashIfEmpty(record.ServiceName)),
					when(record.Notes != "", el("div", attrs(class("muted")), text(record.Notes))),
				),
				el("td", nil, text(formatDate(record.ServiceDate))),
				el("td", nil,
					text(formatDate(record.NextServiceDate)),
					when(!record.NextServiceDate.IsZero(), el("div", attrs(class("muted")), text(relativeDate(record.NextServiceDate, view.Now)))),
				),
				el("td", attrs(class("numeric")), text(formatAmount(record.Amount))),
				el("td", nil, el("span", attrs(class(statusClass(record.Status))), text(statusLabel(loc, record.Status)))),
				when(view.CanManage, el("td", attrs(class("row-actions")),
					postForm(routepath.AppServiceRecordUpdate(record.ID), attrs(class("inline-form")),
						selectBox("status", record.Status, statusOptions(loc, backend.ServiceStatuses, ""), true),
						input("date", "nextServiceDate", formvalue.FormatDate(record.NextServiceDate), false, at("aria-label", T(loc, "web.service.next"))),
						el("button", attrs(at("type", "submit")), text(T(loc, "core.action.update"))),
					),
				)),
			)
		})),
	)
}

func serviceCreateForm(view ServiceView, loc Localizer) templ.Component {
	form := view.Form
	vehicles := []option{{value: "", label: T(loc, "web.service.pick_vehicle")}}
	for _, v := range view.Vehicles {
		vehicles = append(vehicles, option{value: v.ID, label: v.Label()})
	}
	status := form.Status
	if status == "" {
		status = backend.ServicePending
	}
	return el("section", attrs(class("panel")),
		el("h2", nil, text(T(loc, "web.service.new"))),
		postForm(routepath.AppService, attrs(class("grid-form"), at("data-service-form", "")),
			field(T(loc, "web.service.vehicle"), selectBox("vehicleId", form.VehicleID, vehicles, true)),
			field(T(loc, "web.service.name"), input("text", "serviceName", form.ServiceName, true)),
			field(T(loc, "web.service.date"), input("date", "serviceDate", form.ServiceDate, true)),
			field(T(loc, "web.service.next"), input("date", "nextServiceDate", form.NextServiceDate, false)),
			field(T(loc, "web.service.amount"), input("number", "amount", form.Amount, false, at("step", "0.01"), at("min", "0"))),
			field(T(loc, "web.service.status"), selectBox("status", status, statusOptions(loc, backend.ServiceStatuses, ""), true)),
			field(T(loc, "web.service.notes"), el("textarea", attrs(at("name", "notes"), at("rows", "2")), text(form.Notes))),
			submit(T(loc, "core.action.create")),
		),
	)
}
