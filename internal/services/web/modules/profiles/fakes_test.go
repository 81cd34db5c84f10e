package profiles

import (
	"context"
	"strconv"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

// fakeGateway keeps created entities so later list calls see them.
type fakeGateway struct {
	users       []backend.Person
	drivers     []backend.Person
	vehicles    []backend.Vehicle
	listErr     error
	createErr   error
	people      []backend.PersonInput
	updatedKind string
	updatedID   string
	updated     map[string]string
	deletedKind string
	deletedID   string
	nextID      int
}

func (f *fakeGateway) ListUsers(context.Context) ([]backend.Person, error) {
	return f.users, f.listErr
}

func (f *fakeGateway) ListDrivers(context.Context) ([]backend.Person, error) {
	return f.drivers, f.listErr
}

func (f *fakeGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	return f.vehicles, f.listErr
}

func (f *fakeGateway) CreatePerson(_ context.Context, input backend.PersonInput) (backend.Person, error) {
	if f.createErr != nil {
		return backend.Person{}, f.createErr
	}
	f.people = append(f.people, input)
	f.nextID++
	person := backend.Person{ID: strconv.Itoa(f.nextID), Username: input.Username, Name: input.Name, Role: input.Role}
	if input.Role == "DRIVER" {
		f.drivers = append(f.drivers, person)
	} else {
		f.users = append(f.users, person)
	}
	return person, nil
}

func (f *fakeGateway) CreateVehicle(_ context.Context, input backend.VehicleInput) (backend.Vehicle, error) {
	if f.createErr != nil {
		return backend.Vehicle{}, f.createErr
	}
	f.nextID++
	vehicle := backend.Vehicle{
		ID:                 strconv.Itoa(f.nextID),
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Model:              input.Model,
		Type:               input.Type,
		Capacity:           input.Capacity,
		Status:             input.Status,
	}
	f.vehicles = append(f.vehicles, vehicle)
	return vehicle, nil
}

func (f *fakeGateway) UpdateProfileEntity(_ context.Context, kind string, id string, fields map[string]string) error {
	f.updatedKind, f.updatedID, f.updated = kind, id, fields
	return nil
}

func (f *fakeGateway) DeleteProfileEntity(_ context.Context, kind string, id string) error {
	f.deletedKind, f.deletedID = kind, id
	return nil
}
