package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/group"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type GroupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) Create(ctx context.Context, g group.Group) error {
	query, args, err := qb.InsertModel("groups", groupToRow(g))
	if err != nil {
		return fmt.Errorf("build insert group query: %w", err)
	}
	return exec(ctx, r.db, "insert group", query, args)
}

func (r *GroupRepository) Update(ctx context.Context, g group.Group) error {
	query, args, err := qb.UpdateModel("groups", groupToRow(g), "id")
	if err != nil {
		return fmt.Errorf("build update group query: %w", err)
	}
	return execOne(ctx, r.db, "update group", query, args)
}

func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	query, args, err := qb.DeleteFrom("groups").Where(qb.Eq("id", groupID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete group query: %w", err)
	}
	return exec(ctx, r.db, "delete group", query, args)
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	return r.getOne(ctx, "get group by id", qb.Eq("id", groupID))
}

func (r *GroupRepository) GetByInviteCode(ctx context.Context, inviteCode string) (group.Group, bool, error) {
	return r.getOne(ctx, "get group by invite code", qb.Eq("invite_code", inviteCode))
}

func (r *GroupRepository) ListByMember(ctx context.Context, userID string) ([]group.Group, error) {
	return r.list(ctx, "list groups by member", qb.Has("members", userID))
}

func (r *GroupRepository) List(ctx context.Context) ([]group.Group, error) {
	return r.list(ctx, "list groups")
}

func (r *GroupRepository) getOne(ctx context.Context, op string, cond qb.Condition) (group.Group, bool, error) {
	query, args, err := qb.Select(groupColumns...).From("groups").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return group.Group{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row groupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return group.Group{}, false, nil
		}
		return group.Group{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return groupFromRow(row), true, nil
}

func (r *GroupRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]group.Group, error) {
	query, args, err := qb.Select(groupColumns...).From("groups").Where(conds...).OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []groupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]group.Group, 0, len(rows))
	for _, row := range rows {
		out = append(out, groupFromRow(row))
	}
	return out, nil
}
