package backend

import "github.com/tidwall/gjson"

func adaptSearch(value gjson.Result) SearchResult {
	value = objectOf(value, "data")
	if value.IsArray() {
		return SearchResult{Vehicles: adaptVehicles(value)}
	}
	return SearchResult{
		Vehicles: adaptVehicles(value.Get("vehicles")),
		Drivers:  adaptPeople(value.Get("drivers"), "drivers"),
	}
}
