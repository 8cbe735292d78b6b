package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/group"
)

type GroupRepository struct {
	mu    sync.RWMutex
	items map[string]group.Group
}

func NewGroupRepository(groups []group.Group) *GroupRepository {
	items := make(map[string]group.Group, len(groups))
	for _, g := range groups {
		items[g.ID] = cloneGroup(g)
	}
	return &GroupRepository{items: items}
}

func (r *GroupRepository) Create(_ context.Context, g group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[g.ID]; exists {
		return fmt.Errorf("create group: %w", ErrDuplicate)
	}
	for _, existing := range r.items {
		if g.InviteCode != "" && existing.InviteCode == g.InviteCode {
			return fmt.Errorf("create group invite code: %w", ErrDuplicate)
		}
	}
	r.items[g.ID] = cloneGroup(g)
	return nil
}

func (r *GroupRepository) Update(_ context.Context, g group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[g.ID]; !exists {
		return fmt.Errorf("update group: not found")
	}
	r.items[g.ID] = cloneGroup(g)
	return nil
}

func (r *GroupRepository) Delete(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, groupID)
	return nil
}

func (r *GroupRepository) GetByID(_ context.Context, groupID string) (group.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[groupID]
	if !ok {
		return group.Group{}, false, nil
	}
	return cloneGroup(g), true, nil
}

func (r *GroupRepository) GetByInviteCode(_ context.Context, inviteCode string) (group.Group, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.items {
		if g.InviteCode == inviteCode {
			return cloneGroup(g), true, nil
		}
	}
	return group.Group{}, false, nil
}

func (r *GroupRepository) ListByMember(_ context.Context, userID string) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]group.Group, 0)
	for _, g := range r.items {
		if g.IsMember(userID) {
			out = append(out, cloneGroup(g))
		}
	}
	sortGroups(out)
	return out, nil
}

func (r *GroupRepository) List(_ context.Context) ([]group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]group.Group, 0, len(r.items))
	for _, g := range r.items {
		out = append(out, cloneGroup(g))
	}
	sortGroups(out)
	return out, nil
}

func sortGroups(items []group.Group) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].ID < items[j].ID
		}
		return items[i].Name < items[j].Name
	})
}

func cloneGroup(g group.Group) group.Group {
	copied := g
	copied.Admins = slices.Clone(g.Admins)
	copied.Members = slices.Clone(g.Members)
	copied.PendingRequests = slices.Clone(g.PendingRequests)
	return copied
}
