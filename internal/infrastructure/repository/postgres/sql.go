package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/futgol/internal/platform/storage"
)

const uniqueViolationCode = "23505"

// ErrDuplicate is returned for unique constraint violations.
var ErrDuplicate = storage.ErrDuplicate

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports a pq error with SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// execOne runs a write that must touch exactly one row.
func execOne(ctx context.Context, db sqlx.ExtContext, op, query string, args []any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return writeErr(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: not found", op)
	}
	return nil
}

func exec(ctx context.Context, db sqlx.ExtContext, op, query string, args []any) error {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return writeErr(op, err)
	}
	return nil
}

func writeErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func copyStrings(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}
