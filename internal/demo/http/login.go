package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/cryptox"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/slogx"
	"github.com/lastshield/shield/pkg/token"
)

// LoginHandler serves POST /auth/login. Unknown users and wrong passwords
// return the same response so the endpoint cannot be used to enumerate
// accounts.
type LoginHandler struct {
	Users  store.Users
	Tokens *token.Service
	Issuer string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Roles       []string  `json:"roles"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.Users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("user lookup failed", "username", req.Username, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	if err := cryptox.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		log.Warn("login rejected", "username", req.Username)
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	issued, err := h.Tokens.Issue(ctx, user.Username, h.Issuer, user.Roles)
	if err != nil {
		log.Error("token issue failed", "username", req.Username, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: issued.Value,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		Roles:       user.Roles,
	})
}
