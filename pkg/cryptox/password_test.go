package cryptox_test

import (
	"strings"
	"testing"

	"github.com/lastshield/shield/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("hunter2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	t.Run("verifies the original password", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("hunter2", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("hunter3", hash))
	})

	t.Run("salts are unique per hash", func(t *testing.T) {
		other, err := cryptox.HashPassword("hunter2")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"not phc":       "plainhash",
		"wrong scheme":  "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"wrong version": "$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"bad salt":      "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
	}

	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			require.Error(t, cryptox.VerifyPassword("whatever", hash))
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := cryptox.GeneratePassword()
	require.NoError(t, err)
	require.Len(t, a, 16)

	b, err := cryptox.GeneratePassword()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateSecret(t *testing.T) {
	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateSecret(0)
		require.Error(t, err)
	})

	t.Run("produces unique url-safe secrets", func(t *testing.T) {
		a, err := cryptox.GenerateSecret(cryptox.SecretSize256)
		require.NoError(t, err)
		b, err := cryptox.GenerateSecret(cryptox.SecretSize256)
		require.NoError(t, err)

		require.NotEqual(t, a, b)
		require.NotContains(t, a, "=")
		require.NotContains(t, a, "+")
	})
}
