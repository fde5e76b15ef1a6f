package shield

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/routeauth"
	"github.com/lastshield/shield/pkg/slogx"
)

// Rejection messages. Deliberately generic: precise failure detail is logged
// server-side only.
const (
	msgTokenMissing = "Token is missing"
	msgInvalidToken = "Invalid token"
	msgUserNotFound = "User not found"
	msgAccessDenied = "Access Denied"
	msgUnexpected   = "Unexpected error"
)

// Middleware returns the request filter. Per request it either calls the
// next handler exactly once or writes exactly one error response; internal
// failures are caught, logged in full, and surfaced as a generic 500.
func (g *Gate) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Disabled gates and public prefixes skip token handling
			// entirely, keeping the hot path cheap for unprotected routes.
			if g.mode == Disabled || g.routes.Empty() || g.routes.Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			decision := g.routes.Resolve(r.Method, r.URL.Path)
			if decision.Public {
				next.ServeHTTP(w, r)
				return
			}

			principal, ok := g.authenticate(w, r, decision)
			if !ok {
				// An error response has already been written.
				return
			}

			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// authenticate runs the token extraction, validation, principal resolution
// and role check. It writes the rejection response itself and reports
// whether the request may proceed. The recover boundary covers only these
// steps, never the downstream handler.
func (g *Gate) authenticate(w http.ResponseWriter, r *http.Request, decision routeauth.Decision) (principal Principal, ok bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in authentication gate", "panic", rec)
			httpx.WriteError(w, http.StatusInternalServerError, msgUnexpected)
			ok = false
		}
	}()

	raw := bearerToken(r)
	if raw == "" {
		httpx.WriteError(w, http.StatusUnauthorized, msgTokenMissing)
		return Principal{}, false
	}

	tok, valid := g.tokens.Validate(ctx, raw)
	if !valid {
		httpx.WriteError(w, http.StatusForbidden, msgInvalidToken)
		return Principal{}, false
	}

	user, err := g.directory.FindByIdentifier(ctx, tok.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("authenticated token for unknown subject", "subject", tok.Subject)
			httpx.WriteError(w, http.StatusForbidden, msgUserNotFound)
			return Principal{}, false
		}
		log.Error("user directory lookup failed", "subject", tok.Subject, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, msgUnexpected)
		return Principal{}, false
	}

	principal = Principal{
		Identifier: user.Identifier,
		Roles:      normalizeRoles(user.Roles),
	}

	if len(decision.Roles) > 0 && !principal.HasAnyRole(decision.Roles...) {
		log.Warn("principal lacks required role",
			"subject", principal.Identifier,
			"required", decision.Roles,
		)
		httpx.WriteError(w, http.StatusForbidden, msgAccessDenied)
		return Principal{}, false
	}

	return principal, true
}

// bearerToken extracts the credential from the Authorization header,
// stripping the Bearer prefix.
func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

func normalizeRoles(roles []string) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = NormalizeRole(role)
	}
	return out
}
