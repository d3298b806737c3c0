package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/temirkhanov/fintrack/internal/domain"
)

// Token audiences. A token signed for one flow is never accepted by another.
const (
	AudienceAccess            = "access"
	AudienceVerificationEmail = "verification-email"
)

const (
	defaultAccessTTL       = 15 * time.Minute
	defaultVerificationTTL = time.Hour
)

// TokenManager signs and verifies the two classes of HS256 bearer tokens:
// short-lived access tokens and email-verification tokens. The secret and
// TTLs are injected so tests can use distinct values per case.
type TokenManager struct {
	secret          []byte
	accessTTL       time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{
		secret:          secret,
		accessTTL:       defaultAccessTTL,
		verificationTTL: defaultVerificationTTL,
		now:             time.Now,
	}
}

// WithTTLs overrides token lifetimes. Zero values keep the defaults.
func (m *TokenManager) WithTTLs(access, verification time.Duration) *TokenManager {
	if access > 0 {
		m.accessTTL = access
	}
	if verification > 0 {
		m.verificationTTL = verification
	}
	return m
}

// WithClock overrides the signing clock for deterministic tests.
func (m *TokenManager) WithClock(clock func() time.Time) *TokenManager {
	if clock != nil {
		m.now = clock
	}
	return m
}

func (m *TokenManager) SignAccess(subject string) (string, error) {
	return m.sign(subject, AudienceAccess, m.accessTTL)
}

func (m *TokenManager) SignVerificationEmail(subject string) (string, error) {
	return m.sign(subject, AudienceVerificationEmail, m.verificationTTL)
}

func (m *TokenManager) sign(subject, audience string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks signature, expiry, and audience, and returns the
// subject user id.
func (m *TokenManager) VerifyAccess(token string) (string, error) {
	return m.verify(token, AudienceAccess)
}

func (m *TokenManager) VerifyVerificationEmail(token string) (string, error) {
	return m.verify(token, AudienceVerificationEmail)
}

// verify runs the two-phase check: cryptographic verification first, then a
// structural parse of the payload. A valid signature with a subject that is
// not an id means a token from an incompatible issuer, reported as
// ErrMalformedToken rather than an authorization failure.
func (m *TokenManager) verify(token, audience string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			return "", domain.ErrInactiveToken
		default:
			// Covers bad signatures, malformed tokens, and audience mismatch.
			return "", domain.ErrInvalidToken
		}
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}
