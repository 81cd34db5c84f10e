package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/fleettrack/internal/services/web/module"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/fleettrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	// Gate admits requests into protected modules. Without one every
	// protected request is sent to login.
	Gate                func(http.Handler) http.Handler
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
}

// group is one set of modules sharing a mount rule and middleware.
type group struct {
	name      string
	protected bool
	modules   []module.Module
	wrap      func(http.Handler) http.Handler
}

// Compose builds a root HTTP handler from module groups.
func Compose(input ComposeInput) (http.Handler, error) {
	gate := input.Gate
	if gate == nil {
		gate = redirectToLogin
	}
	groups := []group{
		{name: "public", modules: input.PublicModules},
		{
			name:      "protected",
			protected: true,
			modules:   input.ProtectedModules,
			wrap:      protect(gate, input.RequestSchemePolicy),
		},
	}

	root := http.NewServeMux()
	owners := make(map[string]string)
	for _, g := range groups {
		for _, m := range g.modules {
			if m == nil {
				return nil, fmt.Errorf("%s module is nil", g.name)
			}
			if err := g.mount(root, m, owners); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func (g group) mount(root *http.ServeMux, m module.Module, owners map[string]string) error {
	mount, err := resolveMount(m)
	if err != nil {
		return err
	}
	underApp := strings.HasPrefix(mount.Prefix, routepath.AppPrefix)
	switch {
	case g.protected && !underApp:
		return fmt.Errorf("module %q must mount under %s, got %q", m.ID(), routepath.AppPrefix, mount.Prefix)
	case !g.protected && underApp:
		return fmt.Errorf("module %q has protected prefix %q in public group", m.ID(), mount.Prefix)
	}

	handler := mount.Handler
	if g.wrap != nil {
		handler = g.wrap(handler)
	}
	patterns := []string{mount.Prefix}
	// "/app/track" must reach the gate instead of falling through to the
	// public catch-all.
	if g.protected {
		patterns = append(patterns, strings.TrimSuffix(mount.Prefix, "/"))
	}
	for _, pattern := range patterns {
		if owner, ok := owners[pattern]; ok {
			return fmt.Errorf("module %q duplicates prefix %q owned by module %q", m.ID(), pattern, owner)
		}
		owners[pattern] = m.ID()
		root.Handle(pattern, handler)
	}
	return nil
}

func resolveMount(m module.Module) (module.Mount, error) {
	mount, err := m.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", m.ID(), err)
	}
	if err := validatePrefix(mount.Prefix); err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q has invalid prefix %q: %w", m.ID(), mount.Prefix, err)
	}
	if mount.Handler == nil {
		return module.Mount{}, fmt.Errorf("mount module %q: handler is required", m.ID())
	}
	return mount, nil
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("prefix is required")
	case strings.TrimSpace(prefix) != prefix:
		return fmt.Errorf("prefix must not include surrounding whitespace")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("prefix must begin with /")
	case !strings.HasSuffix(prefix, "/"):
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

func redirectToLogin(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteRedirect(w, r, routepath.Login)
	})
}

// protect checks origin before the gate so a cross-site form post never
// reaches session verification.
func protect(gate func(http.Handler) http.Handler, policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return sameOriginMutations(policy, gate(next))
	}
}

// sameOriginMutations rejects cookie-authenticated mutations whose Origin
// does not match the request host.
func sameOriginMutations(policy requestmeta.SchemePolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isMutation(r.Method) && hasSessionCookie(r) && !policy.SameOrigin(r) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
