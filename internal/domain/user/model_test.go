package user

import (
	"errors"
	"testing"
)

func TestParsePhone(t *testing.T) {
	t.Parallel()

	got, err := ParsePhone("+55 (11) 99999-0000")
	if err != nil {
		t.Fatalf("parse phone: %v", err)
	}
	if got != "5511999990000" {
		t.Fatalf("unexpected digits: %s", got)
	}

	if _, err := ParsePhone("9999-000"); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestDefaultNickname(t *testing.T) {
	t.Parallel()

	if got := DefaultNickname("  Carlos Alberto Torres "); got != "Carlos" {
		t.Fatalf("unexpected nickname: %q", got)
	}
	if got := DefaultNickname(" "); got != "" {
		t.Fatalf("expected empty nickname, got %q", got)
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	u := User{ID: "11999990000", Name: "Carlos", Phone: "(11) 99999-0000", Email: "carlos@example.com"}
	if err := u.Validate(); err != nil {
		t.Fatalf("expected valid user: %v", err)
	}

	u.ID = "other"
	if err := u.Validate(); err == nil {
		t.Fatalf("expected id/phone mismatch error")
	}

	u.ID = "11999990000"
	u.Email = "not-an-email"
	if err := u.Validate(); err == nil {
		t.Fatalf("expected email error")
	}
}
