package backend

import "github.com/tidwall/gjson"

func adaptVehicle(value gjson.Result) Vehicle {
	if !value.IsObject() {
		// Some payloads reference a vehicle by bare id.
		return Vehicle{ID: value.String()}
	}
	vehicle := Vehicle{
		ID:                 stringOf(value, "id", "vehicleId"),
		Name:               stringOf(value, "vehicleName", "name"),
		RegistrationNumber: stringOf(value, "registrationNumber", "plateNumber", "registration"),
		Model:              stringOf(value, "model"),
		Type:               enumOf(value, "type", "vehicleType"),
		Capacity:           intOf(value, "capacity"),
		FuelLevel:          floatOf(value, "fuelLevel"),
		Mileage:            floatOf(value, "mileage"),
		CurrentLocation:    stringOf(value, "currentLocation"),
		Status:             enumOf(value, "status"),
		LocationStatus:     enumOf(value, "vehicleLocationStatus", "vehicle_location_status", "locationStatus"),
		Lat:                floatOf(value, "location.lat", "lat", "latitude", "vehicleLatitude"),
		Lng:                floatOf(value, "location.lng", "lng", "longitude", "vehicleLongitude"),
		LastServiceDate:    timeOf(value, "lastServiceDate", "serviceDate"),
		NextServiceDate:    timeOf(value, "nextServiceDate"),
	}
	if driver := firstOf(value, "assignedDriver", "driver"); driver.Exists() {
		if driver.IsObject() {
			person := adaptPerson(driver)
			vehicle.AssignedDriver = &person
			vehicle.AssignedDriverID = person.ID
		} else {
			vehicle.AssignedDriverID = driver.String()
		}
	}
	return vehicle
}

func adaptVehicles(value gjson.Result) []Vehicle {
	items := listOf(value, "vehicles")
	vehicles := make([]Vehicle, 0, len(items))
	for _, item := range items {
		vehicles = append(vehicles, adaptVehicle(item))
	}
	return vehicles
}
