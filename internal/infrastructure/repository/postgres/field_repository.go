package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/field"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type FieldRepository struct {
	db *sqlx.DB
}

func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, f field.Field) error {
	query, args, err := qb.InsertModel("fields", fieldToRow(f))
	if err != nil {
		return fmt.Errorf("build insert field query: %w", err)
	}
	return exec(ctx, r.db, "insert field", query, args)
}

func (r *FieldRepository) Update(ctx context.Context, f field.Field) error {
	query, args, err := qb.UpdateModel("fields", fieldToRow(f), "id")
	if err != nil {
		return fmt.Errorf("build update field query: %w", err)
	}
	return execOne(ctx, r.db, "update field", query, args)
}

func (r *FieldRepository) Delete(ctx context.Context, fieldID string) error {
	query, args, err := qb.DeleteFrom("fields").Where(qb.Eq("id", fieldID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete field query: %w", err)
	}
	return exec(ctx, r.db, "delete field", query, args)
}

func (r *FieldRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	query, args, err := qb.DeleteFrom("fields").Where(qb.Eq("group_id", groupID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete fields by group query: %w", err)
	}
	return exec(ctx, r.db, "delete fields by group", query, args)
}

func (r *FieldRepository) GetByID(ctx context.Context, fieldID string) (field.Field, bool, error) {
	query, args, err := qb.Select(fieldColumns...).From("fields").Where(qb.Eq("id", fieldID)).Limit(1).ToSQL()
	if err != nil {
		return field.Field{}, false, fmt.Errorf("build get field query: %w", err)
	}

	var row fieldTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return field.Field{}, false, nil
		}
		return field.Field{}, false, fmt.Errorf("get field by id: %w", err)
	}
	return fieldFromRow(row), true, nil
}

func (r *FieldRepository) ListByGroup(ctx context.Context, groupID string) ([]field.Field, error) {
	query, args, err := qb.Select(fieldColumns...).From("fields").
		Where(qb.Eq("group_id", groupID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fields query: %w", err)
	}

	var rows []fieldTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fields by group: %w", err)
	}

	out := make([]field.Field, 0, len(rows))
	for _, row := range rows {
		out = append(out, fieldFromRow(row))
	}
	return out, nil
}
