package domain

import (
	"errors"
	"time"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("forbidden")
)

// Transaction is a single income or expense entry. Amount is in minor
// units (cents); negative amounts are expenses.
type Transaction struct {
	ID         string
	UserID     string
	Amount     int64
	Currency   string
	Category   string
	Note       *string
	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
