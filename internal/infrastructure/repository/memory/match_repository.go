package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = cloneMatch(m)
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; exists {
		return fmt.Errorf("create match: %w", ErrDuplicate)
	}
	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; !exists {
		return fmt.Errorf("update match: not found")
	}
	r.items[m.ID] = cloneMatch(m)
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, matchID)
	return nil
}

func (r *MatchRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.items {
		if m.GroupID == groupID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

// ListByGroup returns the most recent matches first.
func (r *MatchRepository) ListByGroup(_ context.Context, groupID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.items {
		if m.GroupID == groupID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	copied.ConfirmedPlayerIDs = slices.Clone(m.ConfirmedPlayerIDs)
	copied.PaidPlayerIDs = slices.Clone(m.PaidPlayerIDs)
	copied.TeamA = slices.Clone(m.TeamA)
	copied.TeamB = slices.Clone(m.TeamB)
	return copied
}
