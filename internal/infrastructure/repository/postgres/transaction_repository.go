package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/futgol/internal/domain/finance"
	qb "github.com/riskibarqy/futgol/internal/platform/querybuilder"
)

type TransactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t finance.Transaction) error {
	query, args, err := qb.InsertModel("transactions", transactionToRow(t))
	if err != nil {
		return fmt.Errorf("build insert transaction query: %w", err)
	}
	return exec(ctx, r.db, "insert transaction", query, args)
}

func (r *TransactionRepository) Update(ctx context.Context, t finance.Transaction) error {
	query, args, err := qb.UpdateModel("transactions", transactionToRow(t), "id")
	if err != nil {
		return fmt.Errorf("build update transaction query: %w", err)
	}
	return execOne(ctx, r.db, "update transaction", query, args)
}

// Upsert keeps the original created_at of an existing row.
func (r *TransactionRepository) Upsert(ctx context.Context, t finance.Transaction) error {
	query, args, err := qb.UpsertModel("transactions", transactionToRow(t), "id")
	if err != nil {
		return fmt.Errorf("build upsert transaction query: %w", err)
	}
	return exec(ctx, r.db, "upsert transaction", query, args)
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID string) error {
	return r.delete(ctx, "delete transaction", qb.Eq("id", transactionID))
}

func (r *TransactionRepository) DeleteByMatch(ctx context.Context, matchID string) error {
	return r.delete(ctx, "delete transactions by match", qb.Eq("related_match_id", matchID))
}

func (r *TransactionRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	return r.delete(ctx, "delete transactions by group", qb.Eq("group_id", groupID))
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID string) (finance.Transaction, bool, error) {
	query, args, err := qb.Select(transactionColumns...).From("transactions").
		Where(qb.Eq("id", transactionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return finance.Transaction{}, false, fmt.Errorf("build get transaction query: %w", err)
	}

	var row transactionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return finance.Transaction{}, false, nil
		}
		return finance.Transaction{}, false, fmt.Errorf("get transaction by id: %w", err)
	}
	return transactionFromRow(row), true, nil
}

// ListByGroup returns rows newest first, bounded by the inclusive date filter.
func (r *TransactionRepository) ListByGroup(ctx context.Context, groupID string, filter finance.Filter) ([]finance.Transaction, error) {
	conds := []qb.Condition{qb.Eq("group_id", groupID)}
	if filter.From != "" {
		conds = append(conds, qb.Gte("tx_date", filter.From))
	}
	if filter.To != "" {
		conds = append(conds, qb.Lte("tx_date", filter.To))
	}
	query, args, err := qb.Select(transactionColumns...).From("transactions").
		Where(conds...).
		OrderBy("tx_date DESC", "created_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transactions query: %w", err)
	}

	var rows []transactionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transactions by group: %w", err)
	}

	out := make([]finance.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionFromRow(row))
	}
	return out, nil
}

func (r *TransactionRepository) delete(ctx context.Context, op string, cond qb.Condition) error {
	query, args, err := qb.DeleteFrom("transactions").Where(cond).ToSQL()
	if err != nil {
		return fmt.Errorf("build %s query: %w", op, err)
	}
	return exec(ctx, r.db, op, query, args)
}

type MonthlyFeeRepository struct {
	db *sqlx.DB
}

func NewMonthlyFeeRepository(db *sqlx.DB) *MonthlyFeeRepository {
	return &MonthlyFeeRepository{db: db}
}

func (r *MonthlyFeeRepository) Create(ctx context.Context, fee finance.MonthlyFee) error {
	query, args, err := qb.InsertModel("monthly_fees", monthlyFeeTableModel(fee))
	if err != nil {
		return fmt.Errorf("build insert monthly fee query: %w", err)
	}
	return exec(ctx, r.db, "insert monthly fee", query, args)
}

func (r *MonthlyFeeRepository) Delete(ctx context.Context, groupID, playerID, month string) (bool, error) {
	query, args, err := qb.DeleteFrom("monthly_fees").
		Where(qb.Eq("group_id", groupID), qb.Eq("player_id", playerID), qb.Eq("month", month)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete monthly fee query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete monthly fee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete monthly fee rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MonthlyFeeRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	query, args, err := qb.DeleteFrom("monthly_fees").Where(qb.Eq("group_id", groupID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete monthly fees by group query: %w", err)
	}
	return exec(ctx, r.db, "delete monthly fees by group", query, args)
}

func (r *MonthlyFeeRepository) ListByGroupMonth(ctx context.Context, groupID, month string) ([]finance.MonthlyFee, error) {
	query, args, err := qb.Select(monthlyFeeColumns...).From("monthly_fees").
		Where(qb.Eq("group_id", groupID), qb.Eq("month", month)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list monthly fees query: %w", err)
	}

	var rows []monthlyFeeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list monthly fees: %w", err)
	}

	out := make([]finance.MonthlyFee, 0, len(rows))
	for _, row := range rows {
		out = append(out, finance.MonthlyFee(row))
	}
	return out, nil
}
