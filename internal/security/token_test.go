package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/temirkhanov/fintrack/internal/domain"
)

const testSecret = "token-test-secret-at-least-32-chars!!"

func TestSignAccess_RoundTrip(t *testing.T) {
	m := NewTokenManager([]byte(testSecret))
	subject := uuid.NewString()

	token, err := m.SignAccess(subject)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := m.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != subject {
		t.Errorf("subject = %q, want %q", got, subject)
	}
}

func TestVerifyAccess_RejectsVerificationAudience(t *testing.T) {
	m := NewTokenManager([]byte(testSecret))

	token, err := m.SignVerificationEmail(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyVerificationEmail_RejectsAccessAudience(t *testing.T) {
	m := NewTokenManager([]byte(testSecret))

	token, err := m.SignAccess(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.VerifyVerificationEmail(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	m := NewTokenManager([]byte(testSecret)).WithClock(func() time.Time { return past })

	token, err := m.SignAccess(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m.WithClock(time.Now)
	if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyAccess_Garbage(t *testing.T) {
	m := NewTokenManager([]byte(testSecret))

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("VerifyAccess(%q) err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyAccess_WrongKey(t *testing.T) {
	other := NewTokenManager([]byte("a-completely-different-32-char-key!!"))
	token, err := other.SignAccess(uuid.NewString())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := NewTokenManager([]byte(testSecret))
	if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyAccess_NonIDSubject_IsMalformed(t *testing.T) {
	// Signed with the right key and audience, but the subject is not an id.
	claims := jwt.RegisteredClaims{
		Subject:   "not-an-id",
		Audience:  jwt.ClaimStrings{AudienceAccess},
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := NewTokenManager([]byte(testSecret))
	if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrMalformedToken) {
		t.Errorf("err = %v, want ErrMalformedToken", err)
	}
}

func TestVerifyAccess_NotYetValid(t *testing.T) {
	future := time.Now().Add(time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Audience:  jwt.ClaimStrings{AudienceAccess},
		NotBefore: jwt.NewNumericDate(future),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(future.Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := NewTokenManager([]byte(testSecret))
	if _, err := m.VerifyAccess(token); !errors.Is(err, domain.ErrInactiveToken) {
		t.Errorf("err = %v, want ErrInactiveToken", err)
	}
}
