package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/riskibarqy/futgol/internal/platform/storage"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert group: %w", &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"groups_invite_code_uq\""})
	if !isUniqueViolation(wrapped) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violation must not be treated as unique")
	}
	if isUniqueViolation(fakeErr("duplicate key value violates unique constraint")) {
		t.Fatalf("plain text errors are not pq errors")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("get: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation matches does not exist")) {
		t.Fatalf("unexpected not found for unrelated error")
	}
}

func TestCopyStrings(t *testing.T) {
	t.Parallel()

	if got := copyStrings(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	src := []string{"a"}
	got := copyStrings(src)
	got[0] = "b"
	if src[0] != "a" {
		t.Fatalf("copy shares storage with source")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func TestWriteErr(t *testing.T) {
	t.Parallel()

	err := writeErr("create player", &pq.Error{Code: "23505"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected the shared storage sentinel, got %v", err)
	}
	if errors.Is(writeErr("create player", fakeErr("boom")), ErrDuplicate) {
		t.Fatalf("unexpected duplicate mapping")
	}
}
