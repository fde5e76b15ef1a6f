package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func corsHandler(cfg CORSConfig) http.Handler {
	return CORSMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORSMiddleware(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins:   []string{"https://app.example.com"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}

	t.Run("allowed origin gets headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		corsHandler(cfg).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Authorization, Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		require.Contains(t, rr.Header().Values("Vary"), "Origin")
	})

	t.Run("disallowed origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()
		corsHandler(cfg).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		corsHandler(cfg).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		require.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin echoes the caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		rr := httptest.NewRecorder()
		corsHandler(CORSConfig{AllowedOrigins: []string{"*"}}).ServeHTTP(rr, req)

		require.Equal(t, "https://anywhere.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("no origin header passes through untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		corsHandler(cfg).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
