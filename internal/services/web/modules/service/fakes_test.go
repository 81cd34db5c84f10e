package service

import (
	"context"
	"sync"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

type fakeGateway struct {
	mu           sync.Mutex
	rows         []backend.ServiceRecord
	listErr      error
	vehicles     []backend.Vehicle
	createErr    error
	created      []backend.ServiceInput
	updatedID    string
	updated      backend.ServiceInput
	vehicleCalls int
}

func (f *fakeGateway) ListServices(context.Context) ([]backend.ServiceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, f.listErr
}

func (f *fakeGateway) CreateService(_ context.Context, input backend.ServiceInput) (backend.ServiceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return backend.ServiceRecord{}, f.createErr
	}
	f.created = append(f.created, input)
	return backend.ServiceRecord{ID: "new", ServiceName: input.ServiceName}, nil
}

func (f *fakeGateway) UpdateService(_ context.Context, id string, input backend.ServiceInput) (backend.ServiceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedID = id
	f.updated = input
	return backend.ServiceRecord{ID: id, Status: input.Status}, nil
}

func (f *fakeGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicleCalls++
	return f.vehicles, nil
}
