package assignments

import (
	"context"
	"sync"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

type fakeGateway struct {
	mu          sync.Mutex
	rows        []backend.Assignment
	listErr     error
	vehicles    []backend.Vehicle
	drivers     []backend.Person
	lookupErr   error
	createErr   error
	updateErr   error
	deleteErr   error
	created     []backend.AssignmentInput
	updatedID   string
	updated     backend.AssignmentInput
	deletedIDs  []string
	lookupCalls int
}

func (f *fakeGateway) ListAssignments(context.Context) ([]backend.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]backend.Assignment(nil), f.rows...), nil
}

func (f *fakeGateway) CreateAssignment(_ context.Context, input backend.AssignmentInput) (backend.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return backend.Assignment{}, f.createErr
	}
	f.created = append(f.created, input)
	return backend.Assignment{ID: "new", Name: input.Name}, nil
}

func (f *fakeGateway) UpdateAssignment(_ context.Context, id string, input backend.AssignmentInput) (backend.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return backend.Assignment{}, f.updateErr
	}
	f.updatedID = id
	f.updated = input
	return backend.Assignment{ID: id, Status: input.Status}, nil
}

func (f *fakeGateway) DeleteAssignment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeGateway) ListVehicles(context.Context) ([]backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	return f.vehicles, f.lookupErr
}

func (f *fakeGateway) ListDrivers(context.Context) ([]backend.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	return f.drivers, f.lookupErr
}
