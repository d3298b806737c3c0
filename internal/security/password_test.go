package security

import (
	"strings"
	"testing"
)

func TestHash_VerifiesOwnOutput(t *testing.T) {
	h := NewHasher()

	encoded, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "argon2id$") {
		t.Errorf("encoded hash %q does not carry the argon2id prefix", encoded)
	}
	if !h.Compare("Secret123!", encoded) {
		t.Error("correct password did not verify")
	}
}

func TestCompare_WrongPassword(t *testing.T) {
	h := NewHasher()

	encoded, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Compare("secret123!", encoded) {
		t.Error("wrong password verified")
	}
}

func TestCompare_MalformedHash_ReturnsFalse(t *testing.T) {
	h := NewHasher()

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"argon2id$v=19$m=65536,t=3,p=4$!!!$!!!",
		"bcrypt$whatever",
		"argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	} {
		if h.Compare("Secret123!", encoded) {
			t.Errorf("malformed hash %q verified", encoded)
		}
	}
}

func TestHash_SaltsAreRandom(t *testing.T) {
	h := NewHasher()

	a, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}
