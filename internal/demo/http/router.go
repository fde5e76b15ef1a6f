// Package http wires the demo service's handlers behind the authentication
// gate. It exists to exercise the library packages end to end; hosts
// embedding the gate bring their own handlers.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/shield"
	"github.com/lastshield/shield/pkg/slogx"
	"github.com/lastshield/shield/pkg/token"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	Users  store.Users
	Tokens *token.Service
	Store  store.Store
}

func NewRouter(gate *shield.Gate, cors httpx.CORSConfig, issuer, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Request logging runs outermost so rejected requests are logged too;
	// the gate sits innermost so every routed request passes through it.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(cors),
		gate.Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{Users: r.Users, Tokens: r.Tokens, Issuer: r.issuer}
	register := &RegisterHandler{Users: r.Users}
	revoke := &RevokeHandler{Tokens: r.Tokens}
	profile := &ProfileHandler{Users: r.Users}

	// Credential endpoints get the strict limit to slow brute forcing.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(login, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(register, httpx.RateLimitByIP(httpx.StrictLimit)))

	r.Mux.Handle("POST /auth/revoke",
		httpx.Chain(revoke, httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /auth/profile",
		httpx.Chain(profile, httpx.RateLimitByIP(httpx.LenientLimit)))
}

func (r *Router) registerAdmin() {
	users := &AdminUsersHandler{Users: r.Users}
	r.Mux.Handle("GET /admin/users",
		httpx.Chain(users, httpx.RateLimitByIP(httpx.LenientLimit)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit)))
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.Store),
			httpx.RateLimitByIP(httpx.LenientLimit)))
}
