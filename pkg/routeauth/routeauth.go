// Package routeauth maps path patterns and HTTP verbs to required roles.
// Rules are appended during startup configuration and the registry is
// read-only afterwards, so concurrent request-time reads need no locking.
package routeauth

import "strings"

// Wildcard is the only pattern token supported: a fixed trailing literal
// meaning "this segment and everything under it". Matching is otherwise
// case-sensitive and exact; there is no glob or regex engine on the hot path.
const Wildcard = "/**"

// Rule maps a path pattern (and optionally a method set) to the roles that
// may pass. A nil Roles slice marks a public route: no authentication at
// all, and the pattern joins the bypass-prefix set so the gate never even
// parses a token for it. An empty Methods set applies to every verb.
type Rule struct {
	Pattern string
	Methods []string
	Roles   []string
}

// matches reports whether the rule's pattern covers path.
func (r Rule) matches(path string) bool {
	if base, ok := strings.CutSuffix(r.Pattern, Wildcard); ok {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == r.Pattern
}

// allowsMethod reports whether the rule covers the HTTP verb.
func (r Rule) allowsMethod(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Decision is the outcome of resolving a request against the registry.
type Decision struct {
	// Public means a matching rule declared no role requirement: the
	// request proceeds with no authentication.
	Public bool

	// Roles a principal must intersect to pass. Nil with Public false means
	// any authenticated principal passes — the default when no rule
	// matches. Unmatched paths still require authentication; they are
	// never silently public.
	Roles []string
}

// Registry holds the ordered rule list plus the bypass-prefix set derived
// from public rules. Append-only during startup, read-only afterwards.
type Registry struct {
	rules    []Rule
	bypasses []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a rule. Rules are evaluated in registration order: the first
// match for a (method, path) pair governs, with no merging across rules.
// Public rules (nil roles) also register their wildcard-stripped pattern as
// a bypass prefix.
func (reg *Registry) Add(pattern string, roles []string, methods ...string) *Registry {
	reg.rules = append(reg.rules, Rule{Pattern: pattern, Methods: methods, Roles: roles})

	if roles == nil {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		reg.bypasses = append(reg.bypasses, prefix)
	}
	return reg
}

// Empty reports whether no rules have been registered at all, which the
// gate treats as authorization globally disabled.
func (reg *Registry) Empty() bool {
	return len(reg.rules) == 0
}

// Rules returns a copy of the registered rules in order.
func (reg *Registry) Rules() []Rule {
	out := make([]Rule, len(reg.rules))
	copy(out, reg.rules)
	return out
}

// Bypass reports whether the path starts with any public-rule prefix. This
// is the cheap pre-check the gate runs before touching the Authorization
// header.
func (reg *Registry) Bypass(path string) bool {
	for _, prefix := range reg.bypasses {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Resolve scans the rules in insertion order and returns the decision for
// the first rule covering (method, path). When nothing matches, the path
// requires authentication with no specific role.
func (reg *Registry) Resolve(method, path string) Decision {
	for _, rule := range reg.rules {
		if !rule.matches(path) || !rule.allowsMethod(method) {
			continue
		}
		if rule.Roles == nil {
			return Decision{Public: true}
		}
		return Decision{Roles: rule.Roles}
	}
	return Decision{}
}
