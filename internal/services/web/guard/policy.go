// Package guard decides whether a request may enter a protected console page.
package guard

import (
	"strings"

	"github.com/louisbranch/fleettrack/internal/services/web/routepath"
	"github.com/louisbranch/fleettrack/internal/services/web/session"
)

// Rule restricts a path prefix to a set of roles. A rule with no roles admits
// any signed-in session.
type Rule struct {
	Prefix string
	Roles  []session.Role
}

// Admits reports whether role may view the rule's pages.
func (r Rule) Admits(role session.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Policy is the role-gated route table.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from rules. The longest matching prefix wins.
func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: append([]Rule(nil), rules...)}
}

// DefaultPolicy returns the console route table.
func DefaultPolicy() Policy {
	admin := []session.Role{session.RoleAdmin}
	return NewPolicy(
		Rule{Prefix: routepath.AppDashboard, Roles: admin},
		Rule{Prefix: routepath.AppTrack, Roles: admin},
		Rule{Prefix: routepath.AppProfiles, Roles: admin},
		Rule{Prefix: routepath.AppAssignments},
		Rule{Prefix: routepath.AppService},
		Rule{Prefix: routepath.AppProfile},
	)
}

// Rules returns a copy of the route table.
func (p Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Match returns the rule governing path.
func (p Policy) Match(path string) (Rule, bool) {
	var best Rule
	found := false
	for _, rule := range p.rules {
		if !pathHasPrefix(path, rule.Prefix) {
			continue
		}
		if !found || len(rule.Prefix) > len(best.Prefix) {
			best = rule
			found = true
		}
	}
	return best, found
}

// Allows reports whether role may view path. Paths outside the table are
// open to any signed-in session.
func (p Policy) Allows(path string, role session.Role) bool {
	rule, ok := p.Match(path)
	if !ok {
		return true
	}
	return rule.Admits(role)
}

// pathHasPrefix matches whole path segments so /app/profile does not claim
// /app/profiles.
func pathHasPrefix(path string, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// LandingPath returns the default page for role.
func LandingPath(role session.Role) string {
	if role == session.RoleAdmin {
		return routepath.AppDashboard
	}
	return routepath.AppProfile
}
