package backend

import "github.com/tidwall/gjson"

func adaptServiceRecord(value gjson.Result) ServiceRecord {
	return ServiceRecord{
		ID:              stringOf(value, "id"),
		Vehicle:         adaptVehicle(firstOf(value, "vehicle", "vehicleId")),
		ServiceName:     stringOf(value, "serviceName", "name"),
		ServiceDate:     timeOf(value, "serviceDate"),
		NextServiceDate: timeOf(value, "nextServiceDate"),
		Notes:           stringOf(value, "notes"),
		Amount:          floatOf(value, "amount", "cost"),
		Status:          enumOf(value, "status"),
	}
}

func adaptServiceRecords(value gjson.Result) []ServiceRecord {
	items := listOf(value, "services")
	records := make([]ServiceRecord, 0, len(items))
	for _, item := range items {
		records = append(records, adaptServiceRecord(item))
	}
	return records
}
