package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Issuer:              "shield",
		Algorithm:           "HS256",
		TokenTTL:            time.Minute,
		DatabaseFile:        ":memory:",
		AdminUsername:       "admin",
		Env:                 "dev",
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                0,
		ShutdownGracePeriod: time.Second,
	}
}

func TestNewGeneratesEphemeralSecret(t *testing.T) {
	cfg := testConfig()
	require.Empty(t, cfg.SecretKey)

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	require.NotEmpty(t, application.cfg.SecretKey)

	// The generated secret signs working tokens.
	tok, err := application.tokens.Issue(context.Background(), "admin", "shield", []string{"ADMIN"})
	require.NoError(t, err)

	_, valid := application.tokens.Validate(context.Background(), tok.Value)
	require.True(t, valid)
}

func TestNewBootstrapsAdmin(t *testing.T) {
	cfg := testConfig()
	cfg.AdminPassword = "configured-password"

	application, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	admin, err := application.db.Users().GetUserByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Equal(t, []string{"ADMIN", "USER"}, admin.Roles)
	require.NotEqual(t, "configured-password", admin.PasswordHash)
}
