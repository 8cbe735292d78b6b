package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/futgol/internal/platform/logging"
)

// Backend persists encoded cache values. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Store is a read-through cache. Backend failures are logged and treated as
// misses so a broken cache never fails a request.
type Store struct {
	backend Backend
	ttl     time.Duration
	flight  singleflight.Group
	logger  *logging.Logger
}

func NewStore(backend Backend, ttl time.Duration, logger *logging.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		backend: backend,
		ttl:     ttl,
		logger:  logger,
	}
}

// NewMemoryStore is a Store over an in-process backend.
func NewMemoryStore(ttl time.Duration) *Store {
	return NewStore(NewMemoryBackend(), ttl, nil)
}

func (s *Store) Delete(ctx context.Context, keys ...string) {
	filtered := keys[:0:0]
	for _, key := range keys {
		if key != "" {
			filtered = append(filtered, key)
		}
	}
	if len(filtered) == 0 {
		return
	}
	if err := s.backend.Delete(ctx, filtered...); err != nil {
		s.logger.WarnContext(ctx, "cache delete failed", "keys", filtered, "error", err)
	}
}

func (s *Store) DeletePrefix(ctx context.Context, prefix string) {
	if prefix == "" {
		return
	}
	if err := s.backend.DeletePrefix(ctx, prefix); err != nil {
		s.logger.WarnContext(ctx, "cache delete prefix failed", "prefix", prefix, "error", err)
	}
}

// Load returns the cached value for key or runs loader once per key across
// concurrent callers and stores its result.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if s == nil || key == "" {
		return loader(ctx)
	}

	if value, ok := get[T](ctx, s, key); ok {
		return value, nil
	}

	out, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := get[T](ctx, s, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		set(ctx, s, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %s holds unexpected type %T", key, out)
	}
	return value, nil
}

func get[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var out T
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return out, false
	}
	if !ok {
		return out, false
	}
	if err := sonic.Unmarshal(raw, &out); err != nil {
		s.logger.WarnContext(ctx, "cache decode failed", "key", key, "error", err)
		return out, false
	}
	return out, true
}

func set(ctx context.Context, s *Store, key string, value any) {
	raw, err := sonic.Marshal(value)
	if err != nil {
		s.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.backend.Set(ctx, key, raw, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}
