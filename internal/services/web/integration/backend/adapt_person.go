package backend

import "github.com/tidwall/gjson"

func adaptPerson(value gjson.Result) Person {
	if !value.IsObject() {
		return Person{ID: value.String()}
	}
	person := Person{
		ID:            stringOf(value, "id", "userId", "driverId"),
		Username:      stringOf(value, "username"),
		Name:          stringOf(value, "name"),
		Email:         stringOf(value, "mailId", "email", "mail_id"),
		Phone:         stringOf(value, "phoneNumber", "phone", "phone_number"),
		Role:          enumOf(value, "role"),
		Status:        enumOf(value, "status"),
		PhotoURL:      stringOf(value, "photoUrl", "photo", "profilePhoto"),
		LicenseNumber: stringOf(value, "licenseNumber"),
		TotalTrips:    intOf(value, "totalTrips"),
		Rating:        floatOf(value, "rating", "ratings"),
	}
	if vehicle := firstOf(value, "assignedVehicle", "assignedVehicleId", "vehicle"); vehicle.Exists() {
		if vehicle.IsObject() {
			person.AssignedVehicleID = stringOf(vehicle, "id")
		} else {
			person.AssignedVehicleID = vehicle.String()
		}
	}
	return person
}

func adaptPeople(value gjson.Result, keys ...string) []Person {
	items := listOf(value, keys...)
	people := make([]Person, 0, len(items))
	for _, item := range items {
		people = append(people, adaptPerson(item))
	}
	return people
}
