package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRecord mirrors an identity-provider login for the lifetime of
// the local access token.
type SessionRecord struct {
	SID       string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    string
	SID       string
	Email     string
	ExpiresAt time.Time
}

type AuthResult struct {
	AccessToken   string
	AccessExpires time.Time
	UserID        string
	Email         string
}
