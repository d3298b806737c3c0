package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/temirkhanov/fintrack/internal/domain"
)

func TestPublic_OmitsPasswordHash(t *testing.T) {
	updated := time.Now()
	u := &domain.User{
		ID:              "user-1",
		Email:           "a@x.com",
		PasswordHash:    "argon2id$v=19$m=65536,t=3,p=4$salt$hash",
		IsEmailVerified: true,
		CreatedAt:       time.Now().Add(-time.Hour),
		UpdatedAt:       &updated,
	}

	raw, err := json.Marshal(u.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	body := strings.ToLower(string(raw))
	if strings.Contains(body, "password") || strings.Contains(body, "hash") {
		t.Errorf("serialized user leaks credentials: %s", raw)
	}
}

func TestPublic_PreservesOtherFields(t *testing.T) {
	u := &domain.User{
		ID:              "user-2",
		Email:           "b@x.com",
		PasswordHash:    "secret",
		IsEmailVerified: false,
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	p := u.Public()
	if p.ID != u.ID || p.Email != u.Email || p.IsEmailVerified != u.IsEmailVerified || !p.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("public view %+v does not match user %+v", p, u)
	}
	if p.UpdatedAt != nil {
		t.Errorf("updated_at = %v, want nil", p.UpdatedAt)
	}
}
