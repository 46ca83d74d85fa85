package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("Sup3rS3cret!")
	require.NoError(t, err)
	second, err := HashPassword("Sup3rS3cret!")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "same password should hash differently per salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rS3cret!")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("Sup3rS3cret!", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := VerifyPassword("not-the-password", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := VerifyPassword("Sup3rS3cret!", "not-a-phc-hash")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch,
			"an unusable hash is a server fault, not a mismatch")
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		err := VerifyPassword("Sup3rS3cret!", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}
