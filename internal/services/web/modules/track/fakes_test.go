package track

import (
	"context"
	"sync"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	"github.com/louisbranch/fleettrack/internal/services/web/integration/geocode"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

type fakeGateway struct {
	mu          sync.Mutex
	vehicles    []backend.Vehicle
	vehiclesErr error
	search      backend.SearchResult
	searchErr   error
	lastQuery   string
	vehicle     backend.Vehicle
	vehicleErr  error
	lastID      string
	calls       int
}

func (f *fakeGateway) TrackedVehicles(context.Context) ([]backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.vehicles, f.vehiclesErr
}

func (f *fakeGateway) SearchTracking(_ context.Context, query string) (backend.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	return f.search, f.searchErr
}

func (f *fakeGateway) TrackedVehicle(_ context.Context, id string) (backend.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID = id
	return f.vehicle, f.vehicleErr
}

func (f *fakeGateway) setVehiclesErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehiclesErr = err
}

type fakeGeocoder struct {
	places    []geocode.Place
	place     geocode.Place
	err       error
	lastQuery string
	lastLat   float64
	lastLng   float64
}

func (f *fakeGeocoder) Search(_ context.Context, query string) ([]geocode.Place, error) {
	f.lastQuery = query
	return f.places, f.err
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat float64, lng float64) (geocode.Place, error) {
	f.lastLat, f.lastLng = lat, lng
	return f.place, f.err
}

type fakeEvents struct {
	ch         chan session.Event
	subscribed chan struct{}
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{ch: make(chan session.Event, 4), subscribed: make(chan struct{}, 1)}
}

func (f *fakeEvents) Subscribe(int) (<-chan session.Event, func()) {
	select {
	case f.subscribed <- struct{}{}:
	default:
	}
	return f.ch, func() {}
}
