package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid input", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "unauthorized", err: E(KindUnauthorized, "unauthorized"), want: http.StatusUnauthorized},
		{name: "forbidden", err: E(KindForbidden, "forbidden"), want: http.StatusForbidden},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "backend keeps status", err: Backend(http.StatusConflict, "vehicle already assigned"), want: http.StatusConflict},
		{name: "backend without status", err: Backend(0, "odd"), want: http.StatusBadGateway},
		{name: "unknown", err: E(KindUnknown, "unknown"), want: http.StatusInternalServerError},
		{name: "untyped", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindForbidden}
	if got := err.Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, string(KindForbidden))
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("list vehicles: %w", Wrap(KindUnavailable, "web.error.unreachable", cause))
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if got := KindOf(err); got != KindUnavailable {
		t.Fatalf("KindOf() = %q, want %q", got, KindUnavailable)
	}
	if got := LocalizationKey(err); got != "web.error.unreachable" {
		t.Fatalf("LocalizationKey() = %q, want %q", got, "web.error.unreachable")
	}
}

func TestIsAuthFailure(t *testing.T) {
	t.Parallel()

	if !IsAuthFailure(E(KindUnauthorized, "expired")) {
		t.Fatal("expected unauthorized to be an auth failure")
	}
	if !IsAuthFailure(fmt.Errorf("wrapped: %w", E(KindForbidden, "denied"))) {
		t.Fatal("expected wrapped forbidden to be an auth failure")
	}
	if IsAuthFailure(Backend(http.StatusInternalServerError, "DB unavailable")) {
		t.Fatal("backend failure is not an auth failure")
	}
	if IsAuthFailure(nil) {
		t.Fatal("nil is not an auth failure")
	}
}

func TestBackendMessage(t *testing.T) {
	t.Parallel()

	msg, ok := BackendMessage(fmt.Errorf("list assignments: %w", Backend(http.StatusInternalServerError, "DB unavailable")))
	if !ok || msg != "DB unavailable" {
		t.Fatalf("BackendMessage() = %q, %v, want %q, true", msg, ok, "DB unavailable")
	}
	if _, ok := BackendMessage(E(KindUnavailable, "down")); ok {
		t.Fatal("expected no backend message for unavailable")
	}
}
