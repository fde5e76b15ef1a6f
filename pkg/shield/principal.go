package shield

import (
	"context"
	"strings"
)

// RolePrefix is the canonical prefix of a normalized role name.
const RolePrefix = "ROLE_"

// Principal is the authenticated identity attached to a request after the
// gate passes it. It lives for the single request only and is never
// persisted.
type Principal struct {
	Identifier string
	Roles      []string // normalized to the ROLE_-prefixed canonical form
}

// NormalizeRole applies the canonical prefix: "ADMIN" and "ROLE_ADMIN" both
// normalize to "ROLE_ADMIN". Already-prefixed names are left alone.
func NormalizeRole(role string) string {
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}

// HasAnyRole reports whether the principal holds at least one of the given
// roles. The arguments may be raw or already-normalized role names.
func (p Principal) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		want = NormalizeRole(want)
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal attached by the
// gate, if any. Handlers behind protected routes can rely on ok being true.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
