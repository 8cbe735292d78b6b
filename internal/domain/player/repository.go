package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) error
	Update(ctx context.Context, p Player) error
	Delete(ctx context.Context, playerID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByGroupAndUser(ctx context.Context, groupID, userID string) (Player, bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]Player, error)
	ListByUser(ctx context.Context, userID string) ([]Player, error)
}
