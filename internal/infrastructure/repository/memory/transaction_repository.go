package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/finance"
)

type TransactionRepository struct {
	mu    sync.RWMutex
	items map[string]finance.Transaction
}

func NewTransactionRepository(items []finance.Transaction) *TransactionRepository {
	out := make(map[string]finance.Transaction, len(items))
	for _, t := range items {
		out[t.ID] = t
	}
	return &TransactionRepository{items: out}
}

func (r *TransactionRepository) Create(_ context.Context, t finance.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; exists {
		return fmt.Errorf("create transaction: %w", ErrDuplicate)
	}
	r.items[t.ID] = t
	return nil
}

func (r *TransactionRepository) Update(_ context.Context, t finance.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[t.ID]; !exists {
		return fmt.Errorf("update transaction: not found")
	}
	r.items[t.ID] = t
	return nil
}

func (r *TransactionRepository) Upsert(_ context.Context, t finance.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[t.ID]; ok && !existing.CreatedAt.IsZero() {
		t.CreatedAt = existing.CreatedAt
	}
	r.items[t.ID] = t
	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, transactionID)
	return nil
}

func (r *TransactionRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.items {
		if t.RelatedMatchID == matchID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *TransactionRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.items {
		if t.GroupID == groupID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, transactionID string) (finance.Transaction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[transactionID]
	return t, ok, nil
}

// ListByGroup returns the newest rows first.
func (r *TransactionRepository) ListByGroup(_ context.Context, groupID string, filter finance.Filter) ([]finance.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]finance.Transaction, 0)
	for _, t := range r.items {
		if t.GroupID == groupID && filter.Match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type MonthlyFeeRepository struct {
	mu    sync.RWMutex
	items map[string]finance.MonthlyFee
}

func NewMonthlyFeeRepository() *MonthlyFeeRepository {
	return &MonthlyFeeRepository{items: make(map[string]finance.MonthlyFee)}
}

func (r *MonthlyFeeRepository) Create(_ context.Context, fee finance.MonthlyFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := monthlyFeeKey(fee.GroupID, fee.PlayerID, fee.Month)
	if _, exists := r.items[key]; exists {
		return fmt.Errorf("create monthly fee: %w", ErrDuplicate)
	}
	r.items[key] = fee
	return nil
}

func (r *MonthlyFeeRepository) Delete(_ context.Context, groupID, playerID, month string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := monthlyFeeKey(groupID, playerID, month)
	if _, exists := r.items[key]; !exists {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func (r *MonthlyFeeRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, fee := range r.items {
		if fee.GroupID == groupID {
			delete(r.items, key)
		}
	}
	return nil
}

func (r *MonthlyFeeRepository) ListByGroupMonth(_ context.Context, groupID, month string) ([]finance.MonthlyFee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]finance.MonthlyFee, 0)
	for _, fee := range r.items {
		if fee.GroupID == groupID && fee.Month == month {
			out = append(out, fee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func monthlyFeeKey(groupID, playerID, month string) string {
	return groupID + "::" + playerID + "::" + month
}
