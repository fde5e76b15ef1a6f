package shield

import (
	"errors"

	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/routeauth"
	"github.com/lastshield/shield/pkg/token"
)

// Mode controls whether the gate filters requests at all. It is a value held
// by the gate instance, fixed at construction; there is no process-wide
// toggle.
type Mode int

const (
	// Disabled passes every request through untouched.
	Disabled Mode = iota
	// Enabled runs the full token validation and authorization pipeline.
	Enabled
)

// Construction errors; all fatal, surfaced before any request is served.
var (
	ErrNoRoutes    = errors.New("shield: enabled gate requires at least one route rule")
	ErrNoTokens    = errors.New("shield: enabled gate requires a token service")
	ErrNoDirectory = errors.New("shield: enabled gate requires a user directory")
)

// Config assembles the gate's collaborators. It is consumed once by New and
// never mutated afterwards; hosts build it in full before starting the
// server.
type Config struct {
	Mode      Mode
	Routes    *routeauth.Registry
	Tokens    *token.Service
	Directory UserDirectory

	// CSRFProtection and CORS carry no logic in the gate; they exist so a
	// host has one place to declare its security settings. The gate never
	// reads them — the host must consume them itself: CORS typically via
	// httpx.CORSMiddleware, CSRFProtection via whatever CSRF middleware
	// its HTTP stack provides.
	CSRFProtection bool
	CORS           httpx.CORSConfig
}

// Gate is the per-request authentication filter. Immutable and safe for
// concurrent use once constructed.
type Gate struct {
	mode      Mode
	routes    *routeauth.Registry
	tokens    *token.Service
	directory UserDirectory
}

// New validates the configuration once and returns a ready gate. An enabled
// gate without rules, token service or directory is a fatal misconfiguration.
func New(cfg Config) (*Gate, error) {
	if cfg.Mode == Enabled {
		if cfg.Routes == nil || cfg.Routes.Empty() {
			return nil, ErrNoRoutes
		}
		if cfg.Tokens == nil {
			return nil, ErrNoTokens
		}
		if cfg.Directory == nil {
			return nil, ErrNoDirectory
		}
	}

	return &Gate{
		mode:      cfg.Mode,
		routes:    cfg.Routes,
		tokens:    cfg.Tokens,
		directory: cfg.Directory,
	}, nil
}
