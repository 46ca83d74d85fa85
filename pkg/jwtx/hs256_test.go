package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewHS256(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewHS256("", "inkwell")
		require.Error(t, err)
	})

	t.Run("empty issuer is allowed", func(t *testing.T) {
		_, err := NewHS256("secret", "")
		require.NoError(t, err)
	})
}

func TestHS256SignVerify(t *testing.T) {
	signer, err := NewHS256("test-secret", "inkwell")
	require.NoError(t, err)

	claims := NewSessionClaims("account-1", "alice", "inkwell", time.Hour, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, claims.ID, got.ID)
}

func TestHS256VerifyRejections(t *testing.T) {
	signer, err := NewHS256("test-secret", "inkwell")
	require.NoError(t, err)

	t.Run("malformed token", func(t *testing.T) {
		_, err := signer.Verify("definitely-not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256("other-secret", "inkwell")
		require.NoError(t, err)

		token, err := other.Sign(NewSessionClaims("account-1", "alice", "inkwell", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(NewSessionClaims("account-1", "alice", "somewhere-else", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("expired regardless of signature", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		token, err := signer.Sign(NewSessionClaims("account-1", "alice", "inkwell", time.Hour, issued))
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("non-HMAC algorithm", func(t *testing.T) {
		claims := NewSessionClaims("account-1", "alice", "inkwell", time.Hour, time.Now())
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		require.ErrorIs(t, err, ErrAlgMismatch)
	})
}
