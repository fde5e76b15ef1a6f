package http

import (
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/slogx"
)

// AdminUsersHandler serves GET /admin/users. Admin-only, enforced by the
// gate's route rules.
type AdminUsersHandler struct {
	Users store.Users
}

type userSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type usersResponse struct {
	Users []userSummary `json:"users"`
}

func (h *AdminUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	all, err := h.Users.ListUsers(ctx)
	if err != nil {
		log.Error("user listing failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	out := usersResponse{Users: make([]userSummary, 0, len(all))}
	for _, u := range all {
		out.Users = append(out.Users, userSummary{
			ID:        u.ID,
			Username:  u.Username,
			Name:      u.Name,
			Roles:     u.Roles,
			CreatedAt: u.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
