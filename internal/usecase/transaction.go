package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/repository"
)

const defaultListLimit = 100

type TransactionUsecase struct {
	repo repository.TransactionRepository
}

func NewTransactionUsecase(repo repository.TransactionRepository) *TransactionUsecase {
	return &TransactionUsecase{repo: repo}
}

type CreateTransactionInput struct {
	UserID     string
	Amount     int64
	Currency   string
	Category   string
	Note       *string
	OccurredAt time.Time
}

func (u *TransactionUsecase) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now()
	}

	tx := &domain.Transaction{
		UserID:     input.UserID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		Category:   input.Category,
		Note:       input.Note,
		OccurredAt: input.OccurredAt,
	}

	created, err := u.repo.Create(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

func (u *TransactionUsecase) List(ctx context.Context, userID string, filter repository.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Limit <= 0 || filter.Limit > defaultListLimit {
		filter.Limit = defaultListLimit
	}

	list, err := u.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

type UpdateTransactionInput struct {
	Amount     *int64
	Currency   *string
	Category   *string
	Note       *string
	OccurredAt *time.Time
}

// Update applies the provided fields to an already-loaded transaction.
// Ownership was checked by the middleware that loaded it.
func (u *TransactionUsecase) Update(ctx context.Context, tx *domain.Transaction, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Amount != nil {
		tx.Amount = *input.Amount
	}
	if input.Currency != nil {
		tx.Currency = *input.Currency
	}
	if input.Category != nil {
		tx.Category = *input.Category
	}
	if input.Note != nil {
		tx.Note = input.Note
	}
	if input.OccurredAt != nil {
		tx.OccurredAt = *input.OccurredAt
	}

	saved, err := u.repo.Save(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	return saved, nil
}

func (u *TransactionUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return domain.ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
