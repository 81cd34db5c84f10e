package weberror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	webi18n "github.com/louisbranch/fleettrack/internal/services/web/i18n"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/pagerender"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
)

func TestWriteModuleErrorRendersAppErrorPageForNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/app/profile/missing", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindNotFound, "missing"), pagerender.Env{})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if body := rr.Body.String(); !strings.Contains(body, `data-status="404"`) {
		t.Fatalf("body missing error state marker: %q", body)
	}
}

func TestWriteModuleErrorWritesPlainTextForBadRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/app/assignments", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindInvalidInput, "bad form"), pagerender.Env{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := rr.Body.String()
	// Internal error text stays out of responses.
	if strings.Contains(body, "bad form") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	loc := webi18n.Printer(webi18n.Default())
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "backend verbatim", err: apperrors.Backend(http.StatusInternalServerError, "DB unavailable"), want: "DB unavailable"},
		{name: "keyed", err: apperrors.EK(apperrors.KindForbidden, "web.guard.access_denied", "nope"), want: "You do not have access to that page."},
		{name: "untyped", err: errors.New("socket: broken pipe"), want: loc.Sprintf("web.error.unknown")},
		{name: "unavailable", err: apperrors.E(apperrors.KindUnavailable, "dial"), want: loc.Sprintf("web.error.backend_unavailable")},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PublicMessage(loc, tc.err); got != tc.want {
				t.Fatalf("PublicMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestToastCarriesBackendMessage(t *testing.T) {
	t.Parallel()

	toast := Toast(nil, apperrors.Backend(http.StatusConflict, "Vehicle already assigned"))
	if toast.Kind != "error" || toast.Message != "Vehicle already assigned" {
		t.Fatalf("toast = %+v", toast)
	}
}
