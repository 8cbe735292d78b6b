package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/comment"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c comment.Comment) error {
	query, args, err := qb.InsertModel("comments", commentToRow(c))
	if err != nil {
		return fmt.Errorf("build insert comment query: %w", err)
	}
	return exec(ctx, r.db, "insert comment", query, args)
}

func (r *CommentRepository) Update(ctx context.Context, c comment.Comment) error {
	query, args, err := qb.UpdateModel("comments", commentToRow(c), "id")
	if err != nil {
		return fmt.Errorf("build update comment query: %w", err)
	}
	return execOne(ctx, r.db, "update comment", query, args)
}

func (r *CommentRepository) DeleteThread(ctx context.Context, commentID string) error {
	return r.delete(ctx, "delete comment thread", qb.Or(qb.Eq("id", commentID), qb.Eq("parent_id", commentID)))
}

func (r *CommentRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	return r.delete(ctx, "delete comments by match", qb.Eq("match_id", matchID))
}

func (r *CommentRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	return r.delete(ctx, "delete comments by group", qb.Eq("group_id", groupID))
}

func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (comment.Comment, bool, error) {
	query, args, err := qb.Select(commentColumns...).From("comments").Where(qb.Eq("id", commentID)).Limit(1).ToSQL()
	if err != nil {
		return comment.Comment{}, false, fmt.Errorf("build get comment query: %w", err)
	}

	var row commentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return comment.Comment{}, false, nil
		}
		return comment.Comment{}, false, fmt.Errorf("get comment by id: %w", err)
	}
	return commentFromRow(row), true, nil
}

func (r *CommentRepository) ListByMatch(ctx context.Context, matchID string) ([]comment.Comment, error) {
	query, args, err := qb.Select(commentColumns...).From("comments").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list comments query: %w", err)
	}

	var rows []commentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list comments by match: %w", err)
	}

	out := make([]comment.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, commentFromRow(row))
	}
	return out, nil
}

func (r *CommentRepository) delete(ctx context.Context, op string, cond qb.Condition) error {
	query, args, err := qb.DeleteFrom("comments").Where(cond).ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	return exec(ctx, r.db, op, query, args)
}
