package domain

import (
	"errors"
	"time"
)

// Signed-token verification failures. Each implies a different client
// action, so they stay distinct until the transport boundary.
var (
	ErrInvalidToken   = errors.New("token is invalid")
	ErrExpiredToken   = errors.New("token has expired")
	ErrInactiveToken  = errors.New("token is not valid yet")
	ErrMalformedToken = errors.New("token payload is malformed")
)

// Refresh-flow failures.
var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrInvalidRefreshToken  = errors.New("refresh token is invalid")
	ErrExpiredRefreshToken  = errors.New("refresh token has expired")
)

// RefreshToken is a persisted long-lived session credential. Value is the
// opaque secret the client presents; it is replaced in place on every
// rotation, so the row id identifies the session across rotations.
type RefreshToken struct {
	ID        string
	UserID    string
	Value     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
