package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/player"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerToRow(p))
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	return exec(ctx, r.db, "insert player", query, args)
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	query, args, err := qb.UpdateModel("players", playerToRow(p), "id")
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	return execOne(ctx, r.db, "update player", query, args)
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	return r.delete(ctx, "delete player", qb.Eq("id", playerID))
}

func (r *PlayerRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	return r.delete(ctx, "delete players by group", qb.Eq("group_id", groupID))
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, "get player by id", qb.Eq("id", playerID))
}

func (r *PlayerRepository) GetByGroupAndUser(ctx context.Context, groupID, userID string) (player.Player, bool, error) {
	if userID == "" {
		return player.Player{}, false, nil
	}
	return r.getOne(ctx, "get player by group and user", qb.Eq("group_id", groupID), qb.Eq("user_id", userID))
}

func (r *PlayerRepository) ListByGroup(ctx context.Context, groupID string) ([]player.Player, error) {
	return r.list(ctx, "list players by group", qb.Eq("group_id", groupID))
}

func (r *PlayerRepository) ListByUser(ctx context.Context, userID string) ([]player.Player, error) {
	if userID == "" {
		return nil, nil
	}
	return r.list(ctx, "list players by user", qb.Eq("user_id", userID))
}

func (r *PlayerRepository) delete(ctx context.Context, op string, cond qb.Condition) error {
	query, args, err := qb.DeleteFrom("players").Where(cond).ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	return exec(ctx, r.db, op, query, args)
}

func (r *PlayerRepository) getOne(ctx context.Context, op string, conds ...qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select(playerColumns...).From("players").Where(conds...).Limit(1).ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) list(ctx context.Context, op string, conds ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select(playerColumns...).From("players").Where(conds...).OrderBy("name", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}
