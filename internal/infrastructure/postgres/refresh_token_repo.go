package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/temirkhanov/fintrack/internal/domain"
)

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (user_id, value, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, value, expires_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, token.UserID, token.Value, token.ExpiresAt)
	return scanRefreshToken(row)
}

func (r *RefreshTokenRepository) FindByValue(ctx context.Context, value string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, user_id, value, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE value = $1`

	return scanRefreshToken(r.pool.QueryRow(ctx, query, value))
}

// Rotate is the single atomic read-modify-write of the refresh flow. The
// WHERE clause keys on the previous value, so of two concurrent rotations
// of the same token exactly one matches and the other scans no rows.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, id, oldValue, newValue string, expiresAt time.Time) (*domain.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET    value      = $3,
		       expires_at = $4,
		       updated_at = NOW()
		WHERE id = $1 AND value = $2
		RETURNING id, user_id, value, expires_at, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, id, oldValue, newValue, expiresAt)
	return scanRefreshToken(row)
}

func (r *RefreshTokenRepository) DeleteByValue(ctx context.Context, value string) (*domain.RefreshToken, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE value = $1
		RETURNING id, user_id, value, expires_at, created_at, updated_at`

	return scanRefreshToken(r.pool.QueryRow(ctx, query, value))
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRefreshToken(row pgx.Row) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.Value, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return &t, nil
}
