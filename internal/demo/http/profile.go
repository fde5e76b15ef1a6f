package http

import (
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/shield"
	"github.com/lastshield/shield/pkg/slogx"
)

// ProfileHandler serves GET /auth/profile for the authenticated principal.
type ProfileHandler struct {
	Users store.Users
}

type profileResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The gate guarantees a principal on every non-public route.
	principal, ok := shield.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Token is missing")
		return
	}

	user, err := h.Users.GetUserByUsername(ctx, principal.Identifier)
	if err != nil {
		log.Error("profile lookup failed", "subject", principal.Identifier, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
	})
}
