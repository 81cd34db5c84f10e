package publicauth

import (
	"context"
	"sync"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

// fakeGateway implements AuthGateway with a canned result and call recording.
type fakeGateway struct {
	mu     sync.Mutex
	result backend.LoginResult
	err    error
	calls  int

	lastUsername string
	lastPassword string
}

func (f *fakeGateway) Login(_ context.Context, username string, password string) (backend.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastUsername = username
	f.lastPassword = password
	if f.err != nil {
		return backend.LoginResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
