package backend

import "github.com/tidwall/gjson"

func adaptDashboard(value gjson.Result) DashboardSummary {
	value = objectOf(value, "data")
	return DashboardSummary{
		Vehicles:    adaptVehicles(value.Get("vehicles")),
		Drivers:     adaptPeople(value.Get("drivers"), "drivers"),
		Users:       adaptPeople(value.Get("users"), "users"),
		Assignments: adaptAssignments(value.Get("assignments")),
		Services:    adaptServiceRecords(value.Get("services")),
	}
}
