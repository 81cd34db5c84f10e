package backend

import "github.com/tidwall/gjson"

func adaptAssignment(value gjson.Result) Assignment {
	return Assignment{
		ID:            stringOf(value, "id"),
		Name:          stringOf(value, "assignmentName", "name"),
		Vehicle:       adaptVehicle(firstOf(value, "vehicle", "vehicleId")),
		Driver:        adaptPerson(firstOf(value, "driver", "driverId")),
		StartLat:      floatOf(value, "startLat", "startLatitude"),
		StartLng:      floatOf(value, "startLng", "startLongitude"),
		EndLat:        floatOf(value, "endLat", "endLatitude"),
		EndLng:        floatOf(value, "endLng", "endLongitude"),
		StartLocation: stringOf(value, "startLocation"),
		DropLocation:  stringOf(value, "dropLocation", "endLocation"),
		RouteDistance: floatOf(value, "routeDistance", "distance"),
		StartTime:     timeOf(value, "startTime"),
		EndTime:       timeOf(value, "endTime"),
		Status:        enumOf(value, "status"),
	}
}

func adaptAssignments(value gjson.Result) []Assignment {
	items := listOf(value, "assignments")
	assignments := make([]Assignment, 0, len(items))
	for _, item := range items {
		assignments = append(assignments, adaptAssignment(item))
	}
	return assignments
}
