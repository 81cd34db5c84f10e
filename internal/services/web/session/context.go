package session

import "context"

type (
	idContextKey      struct{}
	sessionContextKey struct{}
)

// WithID returns ctx carrying the session id whose credentials outgoing
// backend requests should use.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idContextKey{}, id)
}

// IDFromContext returns the session id stored by WithID or WithSession.
func IDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(idContextKey{}).(string); ok {
		return id
	}
	if sess, ok := FromContext(ctx); ok {
		return sess.ID
	}
	return ""
}

// WithSession returns ctx carrying the admitted session snapshot.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(WithID(ctx, sess.ID), sessionContextKey{}, sess)
}

// FromContext returns the session snapshot stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	sess, ok := ctx.Value(sessionContextKey{}).(Session)
	return sess, ok
}
