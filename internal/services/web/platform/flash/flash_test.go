package flash

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
)

func TestWriteThenReadAndClear(t *testing.T) {
	t.Parallel()

	policy := requestmeta.SchemePolicy{}
	rr := httptest.NewRecorder()
	Write(rr, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil), Warning("web.guard.access_denied"), policy)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/app/profile", nil)
	req.AddCookie(cookies[0])
	readRR := httptest.NewRecorder()
	notice, ok := ReadAndClear(readRR, req, policy)
	if !ok {
		t.Fatal("expected notice")
	}
	if notice.Kind != KindWarning || notice.Key != "web.guard.access_denied" {
		t.Fatalf("notice = %+v", notice)
	}
	cleared := readRR.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected notice cookie to be expired, got %+v", cleared)
	}
}

func TestWriteIgnoresInvalidNotice(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Write(rr, req, Notice{Kind: KindError}, requestmeta.SchemePolicy{})
	Write(rr, req, Notice{Kind: "loud", Key: "x"}, requestmeta.SchemePolicy{})
	if got := len(rr.Result().Cookies()); got != 0 {
		t.Fatalf("cookies = %d, want 0", got)
	}
}

func TestReadAndClearRejectsTamperedCookie(t *testing.T) {
	t.Parallel()

	tests := []string{
		"%%%",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"shout","key":"x"}`)),
	}
	for _, value := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		if _, ok := ReadAndClear(httptest.NewRecorder(), req, requestmeta.SchemePolicy{}); ok {
			t.Fatalf("expected cookie %q to be rejected", value)
		}
	}
}
