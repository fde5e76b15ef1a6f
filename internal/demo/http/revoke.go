package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/slogx"
	"github.com/lastshield/shield/pkg/token"
)

// RevokeHandler serves POST /auth/revoke. The route is admin-only; the gate
// has already enforced that before the handler runs. Revoking an
// already-revoked token succeeds, only unknown tokens are reported.
type RevokeHandler struct {
	Tokens *token.Service
}

type revokeRequest struct {
	Token string `json:"token"`
}

func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Token is required")
		return
	}

	if err := h.Tokens.Revoke(ctx, req.Token); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Unknown token")
			return
		}
		log.Error("revocation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
