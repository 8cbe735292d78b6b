package match

import "context"

type Repository interface {
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, matchID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]Match, error)
}
