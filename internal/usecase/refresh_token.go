package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/repository"
)

const (
	refreshTokenTTL   = 7 * 24 * time.Hour
	refreshValueBytes = 32 // hex-encoded to a fixed 64 chars
)

// RefreshTokenService owns refresh-token creation, lookup, rotation, and
// revocation. Expiry is enforced lazily at read time; there is no sweep on
// the request path.
type RefreshTokenService struct {
	tokens repository.RefreshTokenRepository
	now    func() time.Time
}

func NewRefreshTokenService(tokens repository.RefreshTokenRepository) *RefreshTokenService {
	return &RefreshTokenService{tokens: tokens, now: time.Now}
}

// WithClock overrides the service clock for deterministic tests.
func (s *RefreshTokenService) WithClock(clock func() time.Time) *RefreshTokenService {
	if clock != nil {
		s.now = clock
	}
	return s
}

func (s *RefreshTokenService) Create(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}

	token := &domain.RefreshToken{
		UserID:    userID,
		Value:     value,
		ExpiresAt: s.now().Add(refreshTokenTTL),
	}

	created, err := s.tokens.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}
	return created, nil
}

// FindByValue looks up a token by its opaque value. Expiry is deliberately
// not checked here; "not found" and "expired" mean different things to the
// caller.
func (s *RefreshTokenService) FindByValue(ctx context.Context, value string) (*domain.RefreshToken, error) {
	token, err := s.tokens.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return token, nil
}

// Rotate replaces the token's value and extends its expiry in place. The
// caller must have confirmed the token is not expired. If a concurrent
// rotation already replaced the value, the conditional update misses and
// the loser gets ErrInvalidRefreshToken.
func (s *RefreshTokenService) Rotate(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}

	rotated, err := s.tokens.Rotate(ctx, token.ID, token.Value, value, s.now().Add(refreshTokenTTL))
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return rotated, nil
}

// DeleteByValue removes the token and returns the deleted snapshot for
// audit logging. Deleting an absent token is a no-op, so logout stays
// idempotent.
func (s *RefreshTokenService) DeleteByValue(ctx context.Context, value string) (*domain.RefreshToken, error) {
	deleted, err := s.tokens.DeleteByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete refresh token: %w", err)
	}
	return deleted, nil
}

func newTokenValue() (string, error) {
	raw := make([]byte, refreshValueBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token value: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
