package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/match"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel("matches", matchToRow(m))
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	return exec(ctx, r.db, "insert match", query, args)
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	query, args, err := qb.UpdateModel("matches", matchToRow(m), "id")
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}
	return execOne(ctx, r.db, "update match", query, args)
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}
	return exec(ctx, r.db, "delete match", query, args)
}

func (r *MatchRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("group_id", groupID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete matches by group query: %w", err)
	}
	return exec(ctx, r.db, "delete matches by group", query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").Where(qb.Eq("id", matchID)).Limit(1).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return matchFromRow(row), true, nil
}

// ListByGroup returns the newest match first.
func (r *MatchRepository) ListByGroup(ctx context.Context, groupID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("group_id", groupID)).
		OrderBy("match_date DESC", "match_time DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by group: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}
