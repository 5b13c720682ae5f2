package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	token := signToken(t, gojwt.MapClaims{
		"user_id":  42,
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	require.Equal(t, 42, claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
}

func TestParseClaims_Malformed(t *testing.T) {
	_, err := ParseClaims("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseClaims("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsExpired(t *testing.T) {
	t.Run("future expiry", func(t *testing.T) {
		token := signToken(t, gojwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
		require.False(t, IsExpired(token))
	})

	t.Run("past expiry", func(t *testing.T) {
		token := signToken(t, gojwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()})
		require.True(t, IsExpired(token))
	})

	t.Run("no exp claim is left to the server", func(t *testing.T) {
		token := signToken(t, gojwt.MapClaims{"username": "alice"})
		require.False(t, IsExpired(token))
	})

	t.Run("garbage counts as expired", func(t *testing.T) {
		require.True(t, IsExpired("garbage"))
	})
}
