package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/field"
)

type FieldRepository struct {
	mu    sync.RWMutex
	items map[string]field.Field
}

func NewFieldRepository(fields []field.Field) *FieldRepository {
	items := make(map[string]field.Field, len(fields))
	for _, f := range fields {
		items[f.ID] = f
	}
	return &FieldRepository{items: items}
}

func (r *FieldRepository) Create(_ context.Context, f field.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[f.ID]; exists {
		return fmt.Errorf("create field: %w", ErrDuplicate)
	}
	r.items[f.ID] = f
	return nil
}

func (r *FieldRepository) Update(_ context.Context, f field.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[f.ID]; !exists {
		return fmt.Errorf("update field: not found")
	}
	r.items[f.ID] = f
	return nil
}

func (r *FieldRepository) Delete(_ context.Context, fieldID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, fieldID)
	return nil
}

func (r *FieldRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, f := range r.items {
		if f.GroupID == groupID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *FieldRepository) GetByID(_ context.Context, fieldID string) (field.Field, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[fieldID]
	return f, ok, nil
}

func (r *FieldRepository) ListByGroup(_ context.Context, groupID string) ([]field.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]field.Field, 0)
	for _, f := range r.items {
		if f.GroupID == groupID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
