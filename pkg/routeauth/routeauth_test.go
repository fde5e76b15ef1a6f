package routeauth_test

import (
	"net/http"
	"testing"

	"github.com/lastshield/shield/pkg/routeauth"
	"github.com/stretchr/testify/require"
)

func TestResolveOrder(t *testing.T) {
	t.Run("first matching rule governs", func(t *testing.T) {
		reg := routeauth.NewRegistry().
			Add("/admin", []string{"ADMIN"}).
			Add("/**", nil)

		d := reg.Resolve(http.MethodGet, "/admin")
		require.False(t, d.Public)
		require.Equal(t, []string{"ADMIN"}, d.Roles)

		d = reg.Resolve(http.MethodGet, "/anything-else")
		require.True(t, d.Public)
	})

	t.Run("method-specific rules on the same pattern", func(t *testing.T) {
		reg := routeauth.NewRegistry().
			Add("/a/**", []string{"USER"}, http.MethodGet).
			Add("/a/**", []string{"ADMIN"}, http.MethodPost)

		require.Equal(t, []string{"USER"}, reg.Resolve(http.MethodGet, "/a/x").Roles)
		require.Equal(t, []string{"ADMIN"}, reg.Resolve(http.MethodPost, "/a/x").Roles)
	})

	t.Run("unmatched method falls through to the default", func(t *testing.T) {
		reg := routeauth.NewRegistry().
			Add("/a/**", []string{"USER"}, http.MethodGet)

		d := reg.Resolve(http.MethodDelete, "/a/x")
		require.False(t, d.Public)
		require.Nil(t, d.Roles)
	})

	t.Run("no match requires authentication without a role", func(t *testing.T) {
		reg := routeauth.NewRegistry().
			Add("/admin/**", []string{"ADMIN"})

		d := reg.Resolve(http.MethodGet, "/reports")
		require.False(t, d.Public)
		require.Nil(t, d.Roles)
	})
}

func TestPatternMatching(t *testing.T) {
	reg := routeauth.NewRegistry().
		Add("/admin/**", []string{"ADMIN"}).
		Add("/health", nil)

	t.Run("wildcard covers the segment and below", func(t *testing.T) {
		require.Equal(t, []string{"ADMIN"}, reg.Resolve(http.MethodGet, "/admin").Roles)
		require.Equal(t, []string{"ADMIN"}, reg.Resolve(http.MethodGet, "/admin/users").Roles)
		require.Equal(t, []string{"ADMIN"}, reg.Resolve(http.MethodGet, "/admin/users/42").Roles)
	})

	t.Run("wildcard does not cover sibling prefixes", func(t *testing.T) {
		d := reg.Resolve(http.MethodGet, "/administrator")
		require.False(t, d.Public)
		require.Nil(t, d.Roles)
	})

	t.Run("plain patterns are exact", func(t *testing.T) {
		require.True(t, reg.Resolve(http.MethodGet, "/health").Public)

		d := reg.Resolve(http.MethodGet, "/health/live")
		require.False(t, d.Public)
		require.Nil(t, d.Roles)
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		d := reg.Resolve(http.MethodGet, "/Admin/users")
		require.Nil(t, d.Roles)
		require.False(t, d.Public)
	})
}

func TestBypass(t *testing.T) {
	reg := routeauth.NewRegistry().
		Add("/public/**", nil).
		Add("/admin/**", []string{"ADMIN"})

	t.Run("public prefixes bypass the gate", func(t *testing.T) {
		require.True(t, reg.Bypass("/public"))
		require.True(t, reg.Bypass("/public/docs"))
	})

	t.Run("protected paths do not", func(t *testing.T) {
		require.False(t, reg.Bypass("/admin/users"))
		require.False(t, reg.Bypass("/other"))
	})
}

func TestEmpty(t *testing.T) {
	reg := routeauth.NewRegistry()
	require.True(t, reg.Empty())

	reg.Add("/x", []string{"USER"})
	require.False(t, reg.Empty())
	require.Len(t, reg.Rules(), 1)
}
