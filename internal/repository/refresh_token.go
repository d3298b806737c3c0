package repository

import (
	"context"
	"time"

	"github.com/temirkhanov/fintrack/internal/domain"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	// FindByValue looks a token up by its opaque secret value.
	// An absent value yields domain.ErrRefreshTokenNotFound.
	FindByValue(ctx context.Context, value string) (*domain.RefreshToken, error)
	// Rotate atomically replaces the token's value and expiry, conditional on
	// the previous value still being stored. A concurrent rotation that
	// already replaced oldValue makes this yield domain.ErrRefreshTokenNotFound,
	// so exactly one of two racing rotations wins.
	Rotate(ctx context.Context, id, oldValue, newValue string, expiresAt time.Time) (*domain.RefreshToken, error)
	// DeleteByValue removes the token and returns the deleted snapshot.
	// An absent value yields domain.ErrRefreshTokenNotFound.
	DeleteByValue(ctx context.Context, value string) (*domain.RefreshToken, error)
	// DeleteExpired removes tokens whose expiry is before cutoff and returns
	// the number of rows deleted. Used by the maintenance sweeper.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
