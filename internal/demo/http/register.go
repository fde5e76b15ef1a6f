package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/domain"
	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/cryptox"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/idx"
	"github.com/lastshield/shield/pkg/slogx"
)

// RegisterHandler serves POST /auth/register. New accounts always start with
// the USER role only; role grants are an admin operation.
type RegisterHandler struct {
	Users store.Users
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("password hashing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Roles:        []string{"USER"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			httpx.WriteError(w, http.StatusConflict, "Username already taken")
			return
		}
		log.Error("user creation failed", "username", req.Username, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	log.Info("user registered", "user_id", user.ID, "username", user.Username)

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.Roles,
	})
}
