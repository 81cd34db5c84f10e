package http

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

const staticMaxAge = "public, max-age=300"

// StaticHandler serves assets under routepath.StaticPrefix with explicit
// content types. Directory listings are refused.
func StaticHandler(assets fs.FS) http.Handler {
	files := http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(assets)))
	return WithStaticMime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", staticMaxAge)
		files.ServeHTTP(w, r)
	}))
}

// WithStaticMime attaches explicit content-type hints for known static assets.
func WithStaticMime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch path := strings.ToLower(r.URL.Path); {
		case strings.HasSuffix(path, ".css"):
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case strings.HasSuffix(path, ".js"):
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		case strings.HasSuffix(path, ".svg"):
			w.Header().Set("Content-Type", "image/svg+xml")
		}
		next.ServeHTTP(w, r)
	})
}
