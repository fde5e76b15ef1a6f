package token

import "strings"

// defaultIssuers are well-known issuer names that are always trusted, so a
// zero-config deployment can issue under its own name out of the box.
var defaultIssuers = []string{"shield", "shield-auth"}

// TrustedIssuers is a case-insensitive set of issuer identifiers a token must
// carry to be accepted. It is consulted both at issuance and at the
// decode-fallback validation path, which guards against key reuse across
// issuers: a cryptographically valid token from an untrusted issuer is still
// rejected. Immutable after construction, safe for concurrent reads.
type TrustedIssuers struct {
	set map[string]struct{}
}

// NewTrustedIssuers builds the set from the default well-known names plus any
// caller-supplied issuers. Empty entries are ignored.
func NewTrustedIssuers(issuers ...string) TrustedIssuers {
	set := make(map[string]struct{}, len(defaultIssuers)+len(issuers))
	for _, iss := range defaultIssuers {
		set[iss] = struct{}{}
	}
	for _, iss := range issuers {
		iss = strings.ToLower(strings.TrimSpace(iss))
		if iss != "" {
			set[iss] = struct{}{}
		}
	}
	return TrustedIssuers{set: set}
}

// Contains reports whether the issuer is trusted, case-insensitively.
func (t TrustedIssuers) Contains(issuer string) bool {
	_, ok := t.set[strings.ToLower(issuer)]
	return ok
}
