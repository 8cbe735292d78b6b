package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/futgol/internal/domain/comment"
)

type CommentRepository struct {
	mu    sync.RWMutex
	items map[string]comment.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{items: make(map[string]comment.Comment)}
}

func (r *CommentRepository) Create(_ context.Context, c comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; exists {
		return fmt.Errorf("create comment: %w", ErrDuplicate)
	}
	r.items[c.ID] = c
	return nil
}

func (r *CommentRepository) Update(_ context.Context, c comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[c.ID]; !exists {
		return fmt.Errorf("update comment: not found")
	}
	r.items[c.ID] = c
	return nil
}

func (r *CommentRepository) DeleteThread(_ context.Context, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if id == commentID || c.ParentID == commentID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *CommentRepository) DeleteByMatch(_ context.Context, matchID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if c.MatchID == matchID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *CommentRepository) DeleteByGroup(_ context.Context, groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if c.GroupID == groupID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, commentID string) (comment.Comment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[commentID]
	return c, ok, nil
}

// ListByMatch returns comments oldest first.
func (r *CommentRepository) ListByMatch(_ context.Context, matchID string) ([]comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]comment.Comment, 0)
	for _, c := range r.items {
		if c.MatchID == matchID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
