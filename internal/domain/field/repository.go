package field

import "context"

type Repository interface {
	Create(ctx context.Context, f Field) error
	Update(ctx context.Context, f Field) error
	Delete(ctx context.Context, fieldID string) error
	DeleteByGroup(ctx context.Context, groupID string) error
	GetByID(ctx context.Context, fieldID string) (Field, bool, error)
	ListByGroup(ctx context.Context, groupID string) ([]Field, error)
}
