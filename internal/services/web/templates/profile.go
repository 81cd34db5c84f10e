package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

// ProfileView is one user's profile page. A nil Profile renders the error
// state with Message.
type ProfileView struct {
	Profile *backend.Profile
	Message string
}

// ProfilePage renders a driver or user profile.
func ProfilePage(view ProfileView, loc Localizer) templ.Component {
	if view.Profile == nil {
		message := view.Message
		if message == "" {
			message = T(loc, "web.profile.error_not_found")
		}
		return el("section", attrs(class("error-state"), at("data-profile-state", "error")),
			el("h1", nil, text(T(loc, "web.profile.title"))),
			el("p", nil, text(message)),
		)
	}
	p := view.Profile
	return group(
		el("section", attrs(class("profile-card"), at("data-profile-id", p.ID)),
			when(p.PhotoURL != "", el("img", attrs(class("avatar"), at("src", p.PhotoURL), at("alt", p.Label())))),
			el("h1", nil, text(p.Label())),
			el("p", attrs(class("muted")),
				text("@"+dashIfEmpty(p.Username)),
				when(p.Role != "", el("span", attrs(class("role")), text(roleText(loc, p.Role)))),
			),
			el("dl", attrs(class("details")),
				detail(T(loc, "web.profiles.email"), dashIfEmpty(p.Email)),
				detail(T(loc, "web.profiles.phone"), dashIfEmpty(p.Phone)),
				when(p.Status != "", detail(T(loc, "web.profiles.status"), statusLabel(loc, p.Status))),
				when(p.LicenseNumber != "", detail(T(loc, "web.profile.license"), p.LicenseNumber)),
				when(p.TotalTrips > 0, detail(T(loc, "web.profile.trips"), formatCount(p.TotalTrips))),
				when(p.Rating > 0, detail(T(loc, "web.profile.rating"), strconv.FormatFloat(p.Rating, 'f', 1, 64))),
				when(p.JoinedDate != "", detail(T(loc, "web.profile.joined"), p.JoinedDate)),
			),
		),
		el("section", attrs(class("panel"), at("data-panel", "assigned-vehicle")),
			el("h2", nil, text(T(loc, "web.profile.assigned_vehicle"))),
			assignedVehicle(loc, p.AssignedVehicle),
		),
	)
}

func assignedVehicle(loc Localizer, v *backend.Vehicle) templ.Component {
	if v == nil {
		return EmptyState(T(loc, "web.profile.no_vehicle"))
	}
	return el("dl", attrs(class("details")),
		detail(T(loc, "web.profiles.vehicle_name"), dashIfEmpty(v.Name)),
		detail(T(loc, "web.profiles.registration"), dashIfEmpty(v.RegistrationNumber)),
		detail(T(loc, "web.profiles.model"), dashIfEmpty(v.Model)),
		detail(T(loc, "web.profiles.type"), vehicleTypeLabel(loc, v.Type)),
		detail(T(loc, "web.profiles.status"), statusLabel(loc, v.Status)),
		when(v.Mileage > 0, detail(T(loc, "web.profile.mileage"), formatMileage(v.Mileage))),
		detail(T(loc, "web.profiles.last_service"), formatDate(v.LastServiceDate)),
		detail(T(loc, "web.profiles.next_service"), formatDate(v.NextServiceDate)),
	)
}

func detail(label string, value string) templ.Component {
	return group(el("dt", nil, text(label)), el("dd", nil, text(value)))
}
