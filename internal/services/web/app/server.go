package app

import (
	"net/http"
)

// BuildRootHandler composes a root mux using the configured module groups.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	input := ComposeInput{
		PublicModules:       cfg.PublicModules,
		ProtectedModules:    cfg.ProtectedModules,
		RequestSchemePolicy: cfg.SchemePolicy,
	}
	if cfg.Guard != nil {
		input.Gate = cfg.Guard.Middleware
	}
	return Compose(input)
}
