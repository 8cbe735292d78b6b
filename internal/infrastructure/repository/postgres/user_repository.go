package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/user"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	query, args, err := qb.InsertModel("users", userToRow(u))
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}
	return exec(ctx, r.db, "insert user", query, args)
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	query, args, err := qb.UpdateModel("users", userToRow(u), "id")
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}
	return execOne(ctx, r.db, "update user", query, args)
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.getOne(ctx, "get user by id", qb.Eq("id", userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return user.User{}, false, nil
	}
	return r.getOne(ctx, "get user by email", qb.EqFold("email", email))
}

func (r *UserRepository) getOne(ctx context.Context, op string, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).From("users").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return userFromRow(row), true, nil
}
