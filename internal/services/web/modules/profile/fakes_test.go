package profile

import (
	"context"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

type fakeGateway struct {
	profiles map[string]backend.Profile
	err      error
	asked    []string
}

func (f *fakeGateway) MyProfile(_ context.Context, userID string) (backend.Profile, error) {
	f.asked = append(f.asked, userID)
	if f.err != nil {
		return backend.Profile{}, f.err
	}
	return f.profiles[userID], nil
}
