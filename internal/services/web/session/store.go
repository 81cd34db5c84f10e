package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/louisbranch/fleettrack/internal/platform/timeouts"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	"github.com/louisbranch/fleettrack/internal/services/web/secret"
	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
)

const defaultTTL = 8 * time.Hour

var (
	errMissingToken   = errors.New("session token is required")
	errTokenExpired   = errors.New("session token is already expired")
	errNoVerifier     = errors.New("session verifier is not configured")
	errSealerRequired = errors.New("session sealer is required with persistence")
)

// VerifyResult is what the backend reports for a valid token.
type VerifyResult struct {
	Username string
	// Role is empty when the backend did not report one.
	Role Role
}

// Verifier confirms a token with the backend "who am I" endpoint. A 401 or
// 403 must surface as an apperrors auth failure and a connection failure as
// apperrors.KindUnavailable.
type Verifier interface {
	Verify(ctx context.Context, token string) (VerifyResult, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (VerifyResult, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (VerifyResult, error) {
	return f(ctx, token)
}

// Config wires a Store.
type Config struct {
	// Persistence mirrors sessions so Restore works after a restart. Optional.
	Persistence webstorage.SessionStore
	// Sealer encrypts tokens before they reach Persistence.
	Sealer   secret.Sealer
	Verifier Verifier
	// TTL bounds a session when the token carries no earlier exp claim.
	TTL           time.Duration
	VerifyTimeout time.Duration
	Now           func() time.Time
	NewID         func() string
}

// Store holds the live sessions of the console.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]Session
	generation uint64
	// restores tracks Restore calls still reading storage, keyed by session.
	restores map[string]map[*restoreTicket]struct{}

	persistence   webstorage.SessionStore
	sealer        secret.Sealer
	verifier      Verifier
	ttl           time.Duration
	verifyTimeout time.Duration
	now           func() time.Time
	newID         func() string
	group         singleflight.Group

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// restoreTicket is revoked when the session it restores is logged out
// before the persisted record becomes live.
type restoreTicket struct {
	revoked bool
}

// NewStore builds a Store from cfg.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Persistence != nil && cfg.Sealer == nil {
		return nil, errSealerRequired
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = timeouts.BackendRequest
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Store{
		sessions:      make(map[string]Session),
		restores:      make(map[string]map[*restoreTicket]struct{}),
		persistence:   cfg.Persistence,
		sealer:        cfg.Sealer,
		verifier:      cfg.Verifier,
		ttl:           cfg.TTL,
		verifyTimeout: cfg.VerifyTimeout,
		now:           cfg.Now,
		newID:         cfg.NewID,
		subs:          make(map[int]chan Event),
	}, nil
}

// Login records a freshly issued token and identity, persists them and makes
// the session current. The login call itself proved the token, so the
// session starts verified.
func (s *Store) Login(ctx context.Context, token string, identity Identity, antiForgeryToken string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, errMissingToken
	}
	if identity.Role != RoleAdmin {
		identity.Role = RoleDriver
	}
	now := s.now()
	expiresAt, err := s.tokenExpiry(token, now)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:               s.newID(),
		Identity:         identity,
		Token:            token,
		AntiForgeryToken: strings.TrimSpace(antiForgeryToken),
		CreatedAt:        now,
		ExpiresAt:        expiresAt,
		VerifiedAt:       now,
	}
	if err := s.persist(ctx, sess); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.generation++
	sess.Generation = s.generation
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.publish(Event{Kind: EventLoggedIn, SessionID: sess.ID, Identity: sess.Identity})
	return sess, nil
}

// Get returns the live session for id. Expired sessions are logged out.
func (s *Store) Get(ctx context.Context, id string) (Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, false
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && !sess.ExpiresAt.After(s.now()) {
		s.removeLocked(id)
		s.mu.Unlock()
		s.finishLogout(ctx, sess, ReasonExpired)
		return Session{}, false
	}
	s.mu.Unlock()
	return sess, ok
}

// Restore loads a persisted session that is not live in this process,
// optimistically marks it authenticated and immediately verifies it. The
// returned session is usable only when the outcome is OutcomeValid.
func (s *Store) Restore(ctx context.Context, id string) (Session, Outcome, error) {
	id = strings.TrimSpace(id)
	if id == "" || s.persistence == nil {
		return Session{}, OutcomeMissing, nil
	}
	if _, ok := s.Get(ctx, id); !ok {
		ticket := s.beginRestore(id)
		defer s.endRestore(id, ticket)

		record, found, err := s.persistence.LoadSession(ctx, id)
		if err != nil {
			return Session{}, OutcomeMissing, fmt.Errorf("load session: %w", err)
		}
		if !found {
			return Session{}, OutcomeMissing, nil
		}
		token, err := s.sealer.Open(id, record.SealedToken)
		if err != nil {
			log.Printf("web: discard unreadable session session_id=%s err=%v", id, err)
			_ = s.persistence.DeleteSession(ctx, id)
			return Session{}, OutcomeMissing, nil
		}

		sess := Session{
			ID: id,
			Identity: Identity{
				UserID:      record.UserID,
				Username:    record.Username,
				DisplayName: record.DisplayName,
				Role:        ParseRole(record.Role),
			},
			Token:            token,
			AntiForgeryToken: record.AntiForgeryToken,
			CreatedAt:        record.CreatedAt,
			ExpiresAt:        record.ExpiresAt,
		}
		s.mu.Lock()
		if ticket.revoked {
			s.mu.Unlock()
			return Session{}, OutcomeStale, nil
		}
		if _, raced := s.sessions[id]; !raced {
			s.generation++
			sess.Generation = s.generation
			s.sessions[id] = sess
		}
		s.mu.Unlock()
		s.publish(Event{Kind: EventRestored, SessionID: id, Identity: sess.Identity})
	}

	outcome, err := s.Verify(ctx, id)
	if err != nil {
		return Session{}, outcome, err
	}
	if outcome != OutcomeValid {
		return Session{}, outcome, nil
	}
	sess, ok := s.Get(ctx, id)
	if !ok {
		return Session{}, OutcomeStale, nil
	}
	return sess, OutcomeValid, nil
}

func (s *Store) beginRestore(id string) *restoreTicket {
	ticket := &restoreTicket{}
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.restores[id]
	if !ok {
		pending = make(map[*restoreTicket]struct{})
		s.restores[id] = pending
	}
	pending[ticket] = struct{}{}
	return ticket
}

func (s *Store) endRestore(id string, ticket *restoreTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.restores[id]
	delete(pending, ticket)
	if len(pending) == 0 {
		delete(s.restores, id)
	}
}

// removeLocked drops a live session and revokes restores of it still in
// flight. The caller holds s.mu.
func (s *Store) removeLocked(id string) {
	delete(s.sessions, id)
	s.generation++
	for ticket := range s.restores[id] {
		ticket.revoked = true
	}
}

// Verify confirms the session token with the backend.
//
// Concurrent calls for one session share a single backend request. The call
// runs detached from ctx cancellation, bounded by the verify timeout, so one
// client going away does not fail the check for others. Backend failures are
// reported through the Outcome; the error is non-nil only when no verifier
// is configured or ctx ends before the answer arrives.
func (s *Store) Verify(ctx context.Context, id string) (Outcome, error) {
	if s.verifier == nil {
		return OutcomeMissing, errNoVerifier
	}
	id = strings.TrimSpace(id)
	ch := s.group.DoChan(id, func() (any, error) {
		vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.verifyTimeout)
		defer cancel()
		return s.verifyOnce(vctx, id), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Outcome), nil
	case <-ctx.Done():
		return OutcomeStale, ctx.Err()
	}
}

func (s *Store) verifyOnce(ctx context.Context, id string) Outcome {
	s.mu.Lock()
	before, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return OutcomeMissing
	}

	result, err := s.verifier.Verify(ctx, before.Token)
	outcome := classify(err)

	s.mu.Lock()
	current, ok := s.sessions[id]
	if !ok || current.Generation != before.Generation {
		s.mu.Unlock()
		return OutcomeStale
	}
	if outcome != OutcomeValid {
		s.removeLocked(id)
		s.mu.Unlock()
		log.Printf("web: session verify failed session_id=%s outcome=%s err=%v", id, outcome, err)
		s.finishLogout(ctx, current, outcome.Reason())
		return outcome
	}
	current.VerifiedAt = s.now()
	roleChanged := result.Role != "" && result.Role != current.Role
	if roleChanged {
		current.Role = result.Role
	}
	s.sessions[id] = current
	s.mu.Unlock()

	if roleChanged {
		if err := s.persist(ctx, current); err != nil {
			log.Printf("web: persist role change session_id=%s err=%v", id, err)
		}
		// A Logout during the write already deleted the record; the write
		// must not outlive it.
		if !s.isCurrent(id, current.Generation) {
			if err := s.deletePersisted(ctx, id); err != nil {
				log.Printf("web: delete persisted session session_id=%s err=%v", id, err)
			}
			return OutcomeStale
		}
		s.publish(Event{Kind: EventRoleChanged, SessionID: id, Identity: current.Identity})
	}
	s.publish(Event{Kind: EventVerified, SessionID: id, Identity: current.Identity})
	return OutcomeValid
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeValid
	case apperrors.IsAuthFailure(err):
		return OutcomeExpired
	case apperrors.KindOf(err) == apperrors.KindUnavailable,
		errors.Is(err, context.DeadlineExceeded):
		return OutcomeUnreachable
	default:
		return OutcomeServerError
	}
}

// Logout ends a session. It is idempotent and also removes a persisted record
// that was never restored into this process.
func (s *Store) Logout(ctx context.Context, id string, reason Reason) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.removeLocked(id)
	s.mu.Unlock()

	if !ok {
		return s.deletePersisted(ctx, id)
	}
	return s.finishLogout(ctx, sess, reason)
}

// NoteUnauthorized ends a session after any backend call was rejected with
// 401 or 403.
func (s *Store) NoteUnauthorized(ctx context.Context, id string) error {
	return s.Logout(ctx, id, ReasonExpired)
}

func (s *Store) finishLogout(ctx context.Context, sess Session, reason Reason) error {
	s.group.Forget(sess.ID)
	err := s.deletePersisted(ctx, sess.ID)
	if err != nil {
		log.Printf("web: delete persisted session session_id=%s err=%v", sess.ID, err)
	}
	s.publish(Event{Kind: EventLoggedOut, SessionID: sess.ID, Identity: sess.Identity, Reason: reason})
	return err
}

func (s *Store) deletePersisted(ctx context.Context, id string) error {
	if s.persistence == nil {
		return nil
	}
	return s.persistence.DeleteSession(context.WithoutCancel(ctx), id)
}

func (s *Store) persist(ctx context.Context, sess Session) error {
	if s.persistence == nil {
		return nil
	}
	sealed, err := s.sealer.Seal(sess.ID, sess.Token)
	if err != nil {
		return err
	}
	return s.persistence.SaveSession(ctx, webstorage.SessionRecord{
		ID:               sess.ID,
		UserID:           sess.UserID,
		Username:         sess.Username,
		DisplayName:      sess.DisplayName,
		Role:             string(sess.Role),
		SealedToken:      sealed,
		AntiForgeryToken: sess.AntiForgeryToken,
		CreatedAt:        sess.CreatedAt,
		VerifiedAt:       sess.VerifiedAt,
		ExpiresAt:        sess.ExpiresAt,
	})
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature;
// the backend remains the authority on validity. Opaque tokens get the TTL.
func (s *Store) tokenExpiry(token string, now time.Time) (time.Time, error) {
	limit := now.Add(s.ttl)
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return limit, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return limit, nil
	}
	if !exp.After(now) {
		return time.Time{}, errTokenExpired
	}
	if exp.Before(limit) {
		return exp.Time, nil
	}
	return limit, nil
}

func (s *Store) isCurrent(id string, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return ok && sess.Generation == generation
}

// Credentials returns the token and anti-forgery token of the session named
// in ctx. It is read on every outgoing request so a Logout takes effect on
// the next send.
func (s *Store) Credentials(ctx context.Context) (token string, antiForgeryToken string) {
	id := IDFromContext(ctx)
	if id == "" {
		return "", ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || !sess.ExpiresAt.After(s.now()) {
		return "", ""
	}
	return sess.Token, sess.AntiForgeryToken
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// staleIDs returns live sessions last verified before cutoff.
func (s *Store) staleIDs(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0)
	for id, sess := range s.sessions {
		if sess.VerifiedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}

// sweepExpired logs out sessions past their expiry.
func (s *Store) sweepExpired(ctx context.Context) int {
	now := s.now()
	s.mu.Lock()
	var expired []Session
	for id, sess := range s.sessions {
		if !sess.ExpiresAt.After(now) {
			expired = append(expired, sess)
			s.removeLocked(id)
		}
	}
	s.mu.Unlock()
	for _, sess := range expired {
		_ = s.finishLogout(ctx, sess, ReasonExpired)
	}
	return len(expired)
}
