package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims the web API puts into access tokens
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ParseClaims decodes the claims of a token without verifying its
// signature. The client never holds the server's signing secret; it
// only needs to read expiry and user identity out of a stored token.
// The server remains the authority and will reject a forged token.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether a stored token is already past its expiry.
// Tokens without an exp claim are treated as not expired and left for
// the server to judge. Malformed tokens are treated as expired so that
// rehydration drops them instead of sending garbage.
func IsExpired(tokenString string) bool {
	claims, err := ParseClaims(tokenString)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
