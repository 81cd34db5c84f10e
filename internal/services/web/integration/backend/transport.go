package backend

import (
	"context"
	"net/http"
	"strings"
)

// TokenSource yields the bearer token and anti-forgery token for the session
// carried by ctx. Empty values mean the request is sent unauthenticated.
type TokenSource interface {
	Credentials(ctx context.Context) (token string, antiForgeryToken string)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, string)

// Credentials calls f.
func (f TokenSourceFunc) Credentials(ctx context.Context) (string, string) {
	return f(ctx)
}

type explicitTokenKey struct{}

// withToken pins the bearer token for one call, bypassing the TokenSource.
// Verification uses it to check a specific token.
func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, explicitTokenKey{}, token)
}

// bearerTransport attaches credentials immediately before each send.
type bearerTransport struct {
	source TokenSource
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	token, antiForgery := "", ""
	if explicit, ok := ctx.Value(explicitTokenKey{}).(string); ok {
		token = explicit
	} else if t.source != nil {
		token, antiForgery = t.source.Credentials(ctx)
	}
	token = strings.TrimSpace(token)
	antiForgery = strings.TrimSpace(antiForgery)
	if token == "" && (antiForgery == "" || !isMutation(req.Method)) {
		return t.next.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(ctx)
	if token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	if antiForgery != "" && isMutation(req.Method) {
		clone.Header.Set(antiForgeryHeader, antiForgery)
	}
	return t.next.RoundTrip(clone)
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
