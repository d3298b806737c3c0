package repository

import (
	"context"

	"github.com/temirkhanov/fintrack/internal/domain"
)

type UserRepository interface {
	// Create persists a new user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Save updates mutable user fields and sets updated_at. A missing row
	// yields domain.ErrUserNotFound.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
