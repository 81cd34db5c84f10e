package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestStaticHandlerServesAssetsWithTypes(t *testing.T) {
	t.Parallel()

	h := StaticHandler(fstest.MapFS{
		"app.css": {Data: []byte("body{}")},
		"map.js":  {Data: []byte("(function(){})();")},
	})

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{path: "/static/app.css", wantStatus: http.StatusOK, contentType: "text/css; charset=utf-8"},
		{path: "/static/map.js", wantStatus: http.StatusOK, contentType: "text/javascript; charset=utf-8"},
		{path: "/static/missing.js", wantStatus: http.StatusNotFound},
		{path: "/static/", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.wantStatus {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rr.Code, tc.wantStatus)
		}
		if tc.contentType != "" {
			if got := rr.Header().Get("Content-Type"); got != tc.contentType {
				t.Fatalf("GET %s Content-Type = %q, want %q", tc.path, got, tc.contentType)
			}
			if got := rr.Header().Get("Cache-Control"); got != staticMaxAge {
				t.Fatalf("GET %s Cache-Control = %q, want %q", tc.path, got, staticMaxAge)
			}
		}
	}
}

func TestStaticHandlerRejectsWrites(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	StaticHandler(fstest.MapFS{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/static/app.css", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}
