package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	for _, p := range players {
		items[p.ID] = p
	}
	return &PlayerRepository{items: items}
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; exists {
		return fmt.Errorf("create player: %w", ErrDuplicate)
	}
	if p.UserID != "" {
		for _, existing := range r.items {
			if existing.GroupID == p.GroupID && existing.UserID == p.UserID {
				return fmt.Errorf("create player group user: %w", ErrDuplicate)
			}
		}
	}
	r.items[p.ID] = p
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; !exists {
		return fmt.Errorf("update player: not found")
	}
	r.items[p.ID] = p
	return nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, playerID)
	return nil
}

func (r *PlayerRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		if p.GroupID == groupID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByGroupAndUser(_ context.Context, groupID, userID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.GroupID == groupID && p.UserID != "" && p.UserID == userID {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) ListByGroup(_ context.Context, groupID string) ([]player.Player, error) {
	return r.filter(func(p player.Player) bool { return p.GroupID == groupID }), nil
}

func (r *PlayerRepository) ListByUser(_ context.Context, userID string) ([]player.Player, error) {
	if userID == "" {
		return nil, nil
	}
	return r.filter(func(p player.Player) bool { return p.UserID == userID }), nil
}

func (r *PlayerRepository) filter(keep func(player.Player) bool) []player.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
