package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/finance"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/match"
)

// matchLedger keeps the transactions derived from a match in line with its
// roster: one revenue row for collected per-match dues and, once finished,
// one field rent expense.
type matchLedger struct {
	fields       field.Repository
	transactions finance.TransactionRepository
	now          func() time.Time
}

type matchCost struct {
	Field          field.Field
	CostPerPerson  decimal.Decimal
	TotalCollected decimal.Decimal
}

func (l matchLedger) fieldOf(ctx context.Context, m match.Match) (field.Field, error) {
	if m.FieldID == "" {
		return field.Field{}, nil
	}
	f, exists, err := l.fields.GetByID(ctx, m.FieldID)
	if err != nil {
		return field.Field{}, fmt.Errorf("get match field: %w", err)
	}
	if !exists {
		return field.Field{}, nil
	}
	return f, nil
}

func costOf(g group.Group, f field.Field, m match.Match) matchCost {
	cost := match.CostPerPerson(g.PaymentMode, g.FixedAmount, f.HourlyRate, m.ConfirmedCount())
	return matchCost{
		Field:          f,
		CostPerPerson:  cost,
		TotalCollected: cost.Mul(decimal.NewFromInt(int64(len(m.PaidPlayerIDs)))),
	}
}

func (l matchLedger) cost(ctx context.Context, g group.Group, m match.Match) (matchCost, error) {
	f, err := l.fieldOf(ctx, m)
	if err != nil {
		return matchCost{}, err
	}
	return costOf(g, f, m), nil
}

// syncRevenue upserts tx_<matchID> with paid count times cost, or removes it
// when nothing was collected.
func (l matchLedger) syncRevenue(ctx context.Context, g group.Group, m match.Match, c matchCost) error {
	id := finance.MatchRevenueID(m.ID)
	if !c.TotalCollected.IsPositive() {
		if err := l.transactions.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete match revenue: %w", err)
		}
		return nil
	}

	now := l.now().UTC()
	t := finance.Transaction{
		ID:             id,
		GroupID:        g.ID,
		Type:           finance.TypeIncome,
		Category:       finance.CategoryMatchRevenue,
		Description:    finance.MatchRevenueDescription(m.Date, c.Field.Name),
		Amount:         c.TotalCollected,
		Date:           m.Date,
		RelatedMatchID: m.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.transactions.Upsert(ctx, t); err != nil {
		return fmt.Errorf("upsert match revenue: %w", err)
	}
	return nil
}

// syncFieldRent books the field's rate as an expense of a finished match.
func (l matchLedger) syncFieldRent(ctx context.Context, g group.Group, m match.Match, f field.Field) error {
	id := finance.FieldRentID(m.ID)
	if !m.Finished || !f.HourlyRate.IsPositive() {
		if err := l.transactions.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete field rent: %w", err)
		}
		return nil
	}

	now := l.now().UTC()
	t := finance.Transaction{
		ID:             id,
		GroupID:        g.ID,
		Type:           finance.TypeExpense,
		Category:       finance.CategoryFieldRent,
		Description:    finance.FieldRentDescription(f.Name),
		Amount:         f.HourlyRate,
		Date:           m.Date,
		RelatedMatchID: m.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.transactions.Upsert(ctx, t); err != nil {
		return fmt.Errorf("upsert field rent: %w", err)
	}
	return nil
}

// settle re-syncs both derived rows. Field rent is only touched for finished
// matches so reopening keeps the booked expense.
func (l matchLedger) settle(ctx context.Context, g group.Group, m match.Match) (matchCost, error) {
	c, err := l.cost(ctx, g, m)
	if err != nil {
		return matchCost{}, err
	}
	if err := l.syncRevenue(ctx, g, m, c); err != nil {
		return matchCost{}, err
	}
	if m.Finished {
		if err := l.syncFieldRent(ctx, g, m, c.Field); err != nil {
			return matchCost{}, err
		}
	}
	return c, nil
}
