package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedGroup struct {
	ID      string   `json:"id"`
	Members []string `json:"members"`
}

func TestStore_Load_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(context.Background(), store, "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_Load_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (cachedGroup, error) {
		calls.Add(1)
		return cachedGroup{ID: "g1", Members: []string{"11999990000"}}, nil
	}

	if _, err := Load(context.Background(), store, "group:g1", loader); err != nil {
		t.Fatalf("first Load error: %v", err)
	}
	got, err := Load(context.Background(), store, "group:g1", loader)
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("loader called %d times, want 1", calls.Load())
	}
	if got.ID != "g1" || len(got.Members) != 1 {
		t.Fatalf("unexpected cached value: %+v", got)
	}
}

func TestStore_Load_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errUnexpectedValue
		}
		return 7, nil
	}

	if _, err := Load(context.Background(), store, "k", loader); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := Load(context.Background(), store, "k", loader)
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d want 7", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	for _, key := range []string{"players:group:g1", "players:group:g2", "field:f1"} {
		if _, err := Load(ctx, store, key, loader); err != nil {
			t.Fatalf("load %s: %v", key, err)
		}
	}
	store.DeletePrefix(ctx, "players:")

	if _, err := Load(ctx, store, "field:f1", loader); err != nil {
		t.Fatalf("load field: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("field key should still be cached, loader calls=%d", calls.Load())
	}
	if _, err := Load(ctx, store, "players:group:g1", loader); err != nil {
		t.Fatalf("load players: %v", err)
	}
	if calls.Load() != 4 {
		t.Fatalf("players key should have been evicted, loader calls=%d", calls.Load())
	}
}

func TestMemoryBackend_Expires(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	backend := NewMemoryBackend()
	backend.now = func() time.Time { return now }

	ctx := context.Background()
	if err := backend.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	now = now.Add(2 * time.Second)
	if _, ok, _ := backend.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after expiry")
	}
}

func TestRedisBackend_RoundTripAndPrefixDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	store := NewStore(NewRedisBackend(rdb, "futgol:"), time.Minute, nil)

	var calls atomic.Int32
	loader := func(context.Context) (cachedGroup, error) {
		calls.Add(1)
		return cachedGroup{ID: "g1", Members: []string{"a", "b"}}, nil
	}

	if _, err := Load(ctx, store, "group:id:g1", loader); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !mr.Exists("futgol:group:id:g1") {
		t.Fatalf("expected namespaced key in redis, keys=%v", mr.Keys())
	}
	got, err := Load(ctx, store, "group:id:g1", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if calls.Load() != 1 || got.ID != "g1" || len(got.Members) != 2 {
		t.Fatalf("unexpected cached read calls=%d value=%+v", calls.Load(), got)
	}

	store.DeletePrefix(ctx, "group:")
	if mr.Exists("futgol:group:id:g1") {
		t.Fatalf("expected key to be deleted by prefix")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
