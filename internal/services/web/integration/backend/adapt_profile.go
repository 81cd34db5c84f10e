package backend

import "github.com/tidwall/gjson"

func adaptProfile(value gjson.Result) Profile {
	value = objectOf(value, "profile", "data")
	profile := Profile{
		Person:     adaptPerson(value),
		JoinedDate: stringOf(value, "joinedDate", "createdDate"),
	}
	if vehicle := value.Get("assignedVehicle"); vehicle.IsObject() {
		adapted := adaptVehicle(vehicle)
		profile.AssignedVehicle = &adapted
	}
	return profile
}
