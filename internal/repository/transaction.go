package repository

import (
	"context"
	"time"

	"github.com/temirkhanov/fintrack/internal/domain"
)

// TransactionFilter narrows List results. Zero values mean "no constraint".
type TransactionFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	// FindByID loads a transaction regardless of owner; ownership is checked
	// by the caller. A missing row yields domain.ErrTransactionNotFound.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string, filter TransactionFilter) ([]*domain.Transaction, error)
	Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
}
