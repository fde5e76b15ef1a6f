package http

import (
	"net/http"
	"time"

	"github.com/lastshield/shield/internal/demo/store"
	"github.com/lastshield/shield/pkg/httpx"
	"github.com/lastshield/shield/pkg/slogx"
)

type readyChecks struct {
	Database string `json:"database"`
}

type readyResponse struct {
	Status  string      `json:"status"`
	Uptime  string      `json:"uptime"`
	Version string      `json:"version"`
	Checks  readyChecks `json:"checks"`
}

// ReadyzHandler is the readiness probe. Unlike the liveness probe it checks
// critical dependencies, currently just database connectivity.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := readyChecks{Database: "ok"}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness database check failed", "err", err)
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, readyResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
