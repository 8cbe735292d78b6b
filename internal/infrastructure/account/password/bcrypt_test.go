package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("segredo123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "segredo123" {
		t.Fatalf("hash must not equal plain text")
	}
	if err := h.Compare(hash, "segredo123"); err != nil {
		t.Fatalf("compare matching password: %v", err)
	}
	if err := h.Compare(hash, "errado"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}
