package group

import "context"

type Repository interface {
	Create(ctx context.Context, g Group) error
	Update(ctx context.Context, g Group) error
	Delete(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, groupID string) (Group, bool, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (Group, bool, error)
	ListByMember(ctx context.Context, userID string) ([]Group, error)
	List(ctx context.Context) ([]Group, error)
}
