package comment

import "context"

type Repository interface {
	Create(ctx context.Context, c Comment) error
	Update(ctx context.Context, c Comment) error
	// DeleteThread removes the comment and every reply to it.
	DeleteThread(ctx context.Context, commentID string) error
	DeleteByMatch(ctx context.Context, matchID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, commentID string) (Comment, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Comment, error)
}
