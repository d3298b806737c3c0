package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/repository"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, currency, category, note, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, amount, currency, category, note, occurred_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		tx.UserID, tx.Amount, tx.Currency, tx.Category, tx.Note, tx.OccurredAt)
	return scanTransaction(row)
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, user_id, amount, currency, category, note, occurred_at, created_at, updated_at
		FROM transactions
		WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, filter repository.TransactionFilter) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, amount, currency, category, note, occurred_at, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
		  AND ($3::timestamptz IS NULL OR occurred_at < $3)
		ORDER BY occurred_at DESC
		LIMIT $4`

	var from, to any
	if !filter.From.IsZero() {
		from = filter.From
	}
	if !filter.To.IsZero() {
		to = filter.To
	}

	rows, err := r.pool.Query(ctx, query, userID, from, to, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET    amount      = $2,
		       currency    = $3,
		       category    = $4,
		       note        = $5,
		       occurred_at = $6,
		       updated_at  = NOW()
		WHERE id = $1
		RETURNING id, user_id, amount, currency, category, note, occurred_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		tx.ID, tx.Amount, tx.Currency, tx.Category, tx.Note, tx.OccurredAt)
	return scanTransaction(row)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Currency, &t.Category,
		&t.Note, &t.OccurredAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}
