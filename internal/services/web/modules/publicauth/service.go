package publicauth

import (
	"context"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

// AuthGateway exchanges credentials for a backend token.
type AuthGateway interface {
	Login(ctx context.Context, username string, password string) (backend.LoginResult, error)
}

// Sessions is the part of the session store the auth pages drive.
type Sessions interface {
	Login(ctx context.Context, token string, identity session.Identity, antiForgeryToken string) (session.Session, error)
	Get(ctx context.Context, id string) (session.Session, bool)
	Restore(ctx context.Context, id string) (session.Session, session.Outcome, error)
	Logout(ctx context.Context, id string, reason session.Reason) error
}

type service struct {
	auth     AuthGateway
	sessions Sessions
}

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, string, string) (backend.LoginResult, error) {
	return backend.LoginResult{}, apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "auth backend is not configured")
}

func newService(gateway AuthGateway, sessions Sessions) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{auth: gateway, sessions: sessions}
}

// login validates credentials locally, then asks the backend and opens a
// session for the returned token.
func (s service) login(ctx context.Context, username string, password string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return session.Session{}, apperrors.EK(apperrors.KindInvalidInput, "web.login.error_required", "username and password are required")
	}
	if s.sessions == nil {
		return session.Session{}, apperrors.EK(apperrors.KindUnavailable, "web.error.backend_unavailable", "session store is not configured")
	}
	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return session.Session{}, err
	}
	identity := session.Identity{
		UserID:      strings.TrimSpace(result.UserID),
		Username:    strings.TrimSpace(result.Username),
		DisplayName: strings.TrimSpace(result.Name),
		Role:        session.ParseRole(result.Role),
	}
	if identity.Username == "" {
		identity.Username = username
	}
	sess, err := s.sessions.Login(ctx, result.Token, identity, result.AntiForgeryToken)
	if err != nil {
		return session.Session{}, apperrors.Wrap(apperrors.KindUnknown, "", err)
	}
	return sess, nil
}

// current returns the live session for id, restoring a persisted one when
// this process has not seen it yet.
func (s service) current(ctx context.Context, id string) (session.Session, bool) {
	if s.sessions == nil || strings.TrimSpace(id) == "" {
		return session.Session{}, false
	}
	if sess, ok := s.sessions.Get(ctx, id); ok {
		return sess, true
	}
	sess, outcome, err := s.sessions.Restore(ctx, id)
	if err != nil || outcome != session.OutcomeValid {
		return session.Session{}, false
	}
	return sess, true
}

func (s service) logout(ctx context.Context, id string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Logout(ctx, id, session.ReasonUserLogout)
}
