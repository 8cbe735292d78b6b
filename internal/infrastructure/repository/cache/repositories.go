package cache

import (
	"context"

	"github.com/riskibarqy/futgol/internal/domain/field"
	"github.com/riskibarqy/futgol/internal/domain/group"
	"github.com/riskibarqy/futgol/internal/domain/player"
	basecache "github.com/riskibarqy/futgol/internal/platform/cache"
)

const (
	groupKeyPrefix   = "group:id:"
	playersKeyPrefix = "players:group:"
	fieldsKeyPrefix  = "fields:group:"
)

// Cached wraps a lookup result so a miss is cached as well as a hit.
type Cached[T any] struct {
	Value  T
	Exists bool
}

// GroupRepository caches groups by id. Every write drops the group key.
type GroupRepository struct {
	group.Repository
	cache *basecache.Store
}

func NewGroupRepository(next group.Repository, cache *basecache.Store) *GroupRepository {
	return &GroupRepository{Repository: next, cache: cache}
}

func (r *GroupRepository) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	v, err := basecache.Load(ctx, r.cache, groupKeyPrefix+groupID, func(ctx context.Context) (Cached[group.Group], error) {
		item, exists, err := r.Repository.GetByID(ctx, groupID)
		if err != nil {
			return Cached[group.Group]{}, err
		}
		return Cached[group.Group]{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return group.Group{}, false, err
	}
	return v.Value, v.Exists, nil
}

func (r *GroupRepository) Create(ctx context.Context, g group.Group) error {
	if err := r.Repository.Create(ctx, g); err != nil {
		return err
	}
	r.cache.Delete(ctx, groupKeyPrefix+g.ID)
	return nil
}

func (r *GroupRepository) Update(ctx context.Context, g group.Group) error {
	if err := r.Repository.Update(ctx, g); err != nil {
		return err
	}
	r.cache.Delete(ctx, groupKeyPrefix+g.ID)
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	if err := r.Repository.Delete(ctx, groupID); err != nil {
		return err
	}
	r.cache.Delete(ctx, groupKeyPrefix+groupID)
	return nil
}

// PlayerRepository caches the roster of each group.
type PlayerRepository struct {
	player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{Repository: next, cache: cache}
}

func (r *PlayerRepository) ListByGroup(ctx context.Context, groupID string) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, playersKeyPrefix+groupID, func(ctx context.Context) ([]player.Player, error) {
		return r.Repository.ListByGroup(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.Repository.Create(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, playersKeyPrefix+p.GroupID)
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, p player.Player) error {
	if err := r.Repository.Update(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, playersKeyPrefix+p.GroupID)
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	existing, exists, lookupErr := r.Repository.GetByID(ctx, playerID)
	if err := r.Repository.Delete(ctx, playerID); err != nil {
		return err
	}
	if lookupErr != nil || !exists {
		r.cache.DeletePrefix(ctx, playersKeyPrefix)
		return nil
	}
	r.cache.Delete(ctx, playersKeyPrefix+existing.GroupID)
	return nil
}

func (r *PlayerRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	if err := r.Repository.DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	r.cache.Delete(ctx, playersKeyPrefix+groupID)
	return nil
}

// FieldRepository caches the fields of each group.
type FieldRepository struct {
	field.Repository
	cache *basecache.Store
}

func NewFieldRepository(next field.Repository, cache *basecache.Store) *FieldRepository {
	return &FieldRepository{Repository: next, cache: cache}
}

func (r *FieldRepository) ListByGroup(ctx context.Context, groupID string) ([]field.Field, error) {
	items, err := basecache.Load(ctx, r.cache, fieldsKeyPrefix+groupID, func(ctx context.Context) ([]field.Field, error) {
		return r.Repository.ListByGroup(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return append([]field.Field(nil), items...), nil
}

func (r *FieldRepository) Create(ctx context.Context, f field.Field) error {
	if err := r.Repository.Create(ctx, f); err != nil {
		return err
	}
	r.cache.Delete(ctx, fieldsKeyPrefix+f.GroupID)
	return nil
}

func (r *FieldRepository) Update(ctx context.Context, f field.Field) error {
	if err := r.Repository.Update(ctx, f); err != nil {
		return err
	}
	r.cache.Delete(ctx, fieldsKeyPrefix+f.GroupID)
	return nil
}

func (r *FieldRepository) Delete(ctx context.Context, fieldID string) error {
	existing, exists, lookupErr := r.Repository.GetByID(ctx, fieldID)
	if err := r.Repository.Delete(ctx, fieldID); err != nil {
		return err
	}
	if lookupErr != nil || !exists {
		r.cache.DeletePrefix(ctx, fieldsKeyPrefix)
		return nil
	}
	r.cache.Delete(ctx, fieldsKeyPrefix+existing.GroupID)
	return nil
}

func (r *FieldRepository) DeleteByGroup(ctx context.Context, groupID string) error {
	if err := r.Repository.DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	r.cache.Delete(ctx, fieldsKeyPrefix+groupID)
	return nil
}
