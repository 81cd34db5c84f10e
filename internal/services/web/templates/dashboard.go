package templates

import (
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// DashboardView is the admin overview.
type DashboardView struct {
	Now            time.Time
	Vehicles       int
	Drivers        int
	Users          int
	Assignments    int
	Services       int
	ActiveVehicles int
	InProgress     []backend.Assignment
	Upcoming       []backend.ServiceRecord
	Overdue        []backend.ServiceRecord
}

// DashboardPage renders the admin overview.
func DashboardPage(view DashboardView, loc Localizer) templ.Component {
	return group(
		el("h1", nil, text(T(loc, "web.dashboard.title"))),
		el("section", attrs(class("stat-grid")),
			statCard(loc, "web.dashboard.vehicles", view.Vehicles, routepath.AppProfilesTab("vehicles")),
			statCard(loc, "web.dashboard.active_vehicles", view.ActiveVehicles, routepath.AppTrack),
			statCard(loc, "web.dashboard.drivers", view.Drivers, routepath.AppProfilesTab("drivers")),
			statCard(loc, "web.dashboard.users", view.Users, routepath.AppProfilesTab("users")),
			statCard(loc, "web.dashboard.assignments", view.Assignments, routepath.AppAssignments),
			statCard(loc, "web.dashboard.services", view.Services, routepath.AppService),
		),
		el("section", attrs(class("panel"), at("data-panel", "in-progress")),
			el("h2", nil, text(T(loc, "web.dashboard.in_progress"))),
			listOrEmpty(loc, len(view.InProgress), el("ul", attrs(class("plain-list")),
				each(view.InProgress, func(a backend.Assignment) templ.Component {
					return el("li", nil,
						el("strong", nil, text(dashIfEmpty(a.Name))),
						text(" "+a.Vehicle.Label()+" / "+a.Driver.Label()),
					)
				}),
			)),
		),
		servicePanel(loc, "upcoming", "web.dashboard.upcoming", view.Upcoming, view.Now),
		servicePanel(loc, "overdue", "web.dashboard.overdue", view.Overdue, view.Now),
	)
}

func statCard(loc Localizer, key string, count int, href string) templ.Component {
	return el("a", attrs(class("stat-card"), at("href", href), at("data-stat", key)),
		el("span", attrs(class("stat-value")), text(formatCount(count))),
		el("span", attrs(class("stat-label")), text(T(loc, key))),
	)
}

func servicePanel(loc Localizer, name string, key string, records []backend.ServiceRecord, now time.Time) templ.Component {
	return el("section", attrs(class("panel"), at("data-panel", name)),
		el("h2", nil, text(T(loc, key))),
		listOrEmpty(loc, len(records), el("ul", attrs(class("plain-list")),
			each(records, func(record backend.ServiceRecord) templ.Component {
				return el("li", nil,
					el("strong", nil, text(record.Vehicle.Label())),
					text(" "+dashIfEmpty(record.ServiceName)+" "),
					el("time", attrs(at("datetime", formatDate(record.NextServiceDate))),
						text(T(loc, "web.dashboard.due", relativeDate(record.NextServiceDate, now))),
					),
				)
			}),
		)),
	)
}

func listOrEmpty(loc Localizer, n int, list templ.Component) templ.Component {
	if n == 0 {
		return EmptyState(T(loc, "core.empty"))
	}
	return list
}
