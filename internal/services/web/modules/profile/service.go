package profile

import (
	"context"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

// ProfileGateway loads one user's profile.
type ProfileGateway interface {
	MyProfile(ctx context.Context, userID string) (backend.Profile, error)
}

type service struct {
	gateway ProfileGateway
}

type unavailableGateway struct{}

func (unavailableGateway) MyProfile(context.Context, string) (backend.Profile, error) {
	return backend.Profile{}, apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "profile backend is not configured")
}

func newService(gateway ProfileGateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

func (s service) load(ctx context.Context, userID string) (*backend.Profile, error) {
	profile, err := s.gateway.MyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
