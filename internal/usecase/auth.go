package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/temirkhanov/fintrack/internal/domain"
	"github.com/temirkhanov/fintrack/internal/email"
	"github.com/temirkhanov/fintrack/internal/metrics"
	"github.com/temirkhanov/fintrack/internal/security"
)

// PasswordHasher is the subset of the hasher the auth flow needs. Defined
// here so tests can inject a cheap fake instead of running argon2.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// Session is the result of register and login: the user plus the two
// credentials the transport layer turns into cookies.
type Session struct {
	User         *domain.User
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

// TokenPair is the result of a refresh: a new access token and the rotated
// refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

// AuthUsecase composes the hasher, token manager, refresh-token service,
// and user service into the user-facing auth operations.
type AuthUsecase struct {
	users          *UserService
	refresh        *RefreshTokenService
	tokens         *security.TokenManager
	hasher         PasswordHasher
	email          email.Sender
	verifyLinkBase string
	logger         *slog.Logger
}

func NewAuthUsecase(
	users *UserService,
	refresh *RefreshTokenService,
	tokens *security.TokenManager,
	hasher PasswordHasher,
	emailSender email.Sender,
	verifyLinkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:          users,
		refresh:        refresh,
		tokens:         tokens,
		hasher:         hasher,
		email:          emailSender,
		verifyLinkBase: verifyLinkBase,
		logger:         logger.With("component", "auth_usecase"),
	}
}

// Register creates an unverified account and opens a session. The
// verification email is sent best-effort; a delivery failure is logged and
// does not fail the registration.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password string) (*Session, error) {
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, hash)
	if err != nil {
		return nil, err
	}

	session, err := u.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.sendVerificationEmail(ctx, user); err != nil {
		u.logger.ErrorContext(ctx, "send verification email", "user_id", user.ID, "error", err)
	}

	metrics.RegistrationsTotal.Inc()
	return session, nil
}

// Login checks credentials and opens a session. An unknown email and a
// wrong password yield the same error, so callers cannot probe which
// addresses are registered.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !u.hasher.Compare(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	session, err := u.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

// Refresh consumes the presented refresh-token value and issues a new
// access token plus a rotated refresh token. The old value stops working
// the moment rotation succeeds. An expired token is refused but left in
// place; cleanup belongs to the maintenance sweeper.
func (u *AuthUsecase) Refresh(ctx context.Context, value string) (*TokenPair, error) {
	token, err := u.refresh.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			metrics.RefreshesTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	if token.IsExpired(u.refresh.now()) {
		metrics.RefreshesTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrExpiredRefreshToken
	}

	rotated, err := u.refresh.Rotate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRefreshToken) {
			// Lost a concurrent rotation race; only one caller may win.
			metrics.RefreshesTotal.WithLabelValues("invalid").Inc()
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}

	access, err := u.tokens.SignAccess(rotated.UserID)
	if err != nil {
		return nil, err
	}

	metrics.RefreshesTotal.WithLabelValues("rotated").Inc()
	return &TokenPair{AccessToken: access, RefreshToken: rotated}, nil
}

// Logout revokes the session. A missing token is not an error, so a stale
// client can always log out cleanly. The deleted snapshot is logged for
// audit.
func (u *AuthUsecase) Logout(ctx context.Context, value string) (*domain.RefreshToken, error) {
	deleted, err := u.refresh.DeleteByValue(ctx, value)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		u.logger.InfoContext(ctx, "session revoked", "user_id", deleted.UserID, "token_id", deleted.ID)
	}
	return deleted, nil
}

// VerifyEmail consumes a signed verification-email token and marks the
// account verified.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	subject, err := u.tokens.VerifyVerificationEmail(token)
	if err != nil {
		return nil, err
	}
	return u.users.MarkEmailVerified(ctx, subject)
}

func (u *AuthUsecase) openSession(ctx context.Context, user *domain.User) (*Session, error) {
	token, err := u.refresh.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	access, err := u.tokens.SignAccess(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: user, AccessToken: access, RefreshToken: token}, nil
}

func (u *AuthUsecase) sendVerificationEmail(ctx context.Context, user *domain.User) error {
	token, err := u.tokens.SignVerificationEmail(user.ID)
	if err != nil {
		return fmt.Errorf("sign verification token: %w", err)
	}

	link := u.verifyLinkBase + "/auth/verify-email?token=" + token
	subject := "Verify your email"
	body := fmt.Sprintf(
		`<p>Click the link below to verify your email (expires in 1 hour):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
