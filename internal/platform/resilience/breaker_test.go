package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream down")

func fail(context.Context) error    { return errUpstream }
func succeed(context.Context) error { return nil }

type transitions struct {
	mu  sync.Mutex
	got []string
}

func (r *transitions) record(from, to State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, string(from)+">"+string(to))
}

func TestBreaker_Transitions(t *testing.T) {
	t.Parallel()

	rec := &transitions{}
	b := New(Config{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1, OnStateChange: rec.record})
	now := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Run(ctx, fail, nil)
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = b.Run(ctx, fail, nil)
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}

	called := false
	err := b.Run(ctx, func(context.Context) error {
		called = true
		return nil
	}, nil)
	if !errors.Is(err, ErrOpen) || called {
		t.Fatalf("expected rejection without calling fn, err=%v called=%v", err, called)
	}

	now = now.Add(6 * time.Second)
	if state := b.State(); state != StateHalfOpen {
		t.Fatalf("expected expired open breaker to report half open, got %s", state)
	}
	if err := b.Run(ctx, succeed, nil); err != nil {
		t.Fatalf("expected half-open probe to pass: %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []string{"closed>open", "open>half_open", "half_open>closed"}
	if len(rec.got) != len(want) {
		t.Fatalf("unexpected transitions: %v", rec.got)
	}
	for i := range want {
		if rec.got[i] != want[i] {
			t.Fatalf("unexpected transitions: %v", rec.got)
		}
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := New(Config{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenProbes: 1})
	now := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	ctx := context.Background()

	_ = b.Run(ctx, fail, nil)
	now = now.Add(2 * time.Second)
	if err := b.Run(ctx, fail, nil); !errors.Is(err, errUpstream) {
		t.Fatalf("expected probe to reach upstream, got %v", err)
	}
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected failed probe to reopen, got %s", state)
	}
}

func TestBreaker_OnlyCountsSelectedFailures(t *testing.T) {
	t.Parallel()

	b := New(Config{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute})
	errBadRequest := errors.New("bad request")
	isTransient := func(err error) bool { return errors.Is(err, errUpstream) }
	ctx := context.Background()

	err := b.Run(ctx, func(context.Context) error { return errBadRequest }, isTransient)
	if !errors.Is(err, errBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("non-transient error must keep breaker closed, got %s", state)
	}

	if err := b.Run(ctx, fail, isTransient); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open breaker, got %s", state)
	}
}

func TestBreaker_CallerCancellationDoesNotCount(t *testing.T) {
	t.Parallel()

	b := New(Config{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Run(ctx, func(ctx context.Context) error { return ctx.Err() }, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("cancellation must not trip the breaker, got %s", state)
	}
}

func TestCall_ReturnsValue(t *testing.T) {
	t.Parallel()

	b := New(Config{Enabled: true})
	got, err := Call(context.Background(), b, func(context.Context) (int, error) { return 42, nil }, nil)
	if err != nil || got != 42 {
		t.Fatalf("unexpected result: %d %v", got, err)
	}
}

func TestNew_DisabledAndDefaults(t *testing.T) {
	t.Parallel()

	var disabled *Breaker
	if b := New(Config{}); b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	if err := disabled.Run(context.Background(), succeed, nil); err != nil {
		t.Fatalf("nil breaker should run fn: %v", err)
	}
	if state := disabled.State(); state != StateClosed {
		t.Fatalf("nil breaker should report closed, got %s", state)
	}

	b := New(Config{Enabled: true})
	if b.cfg.FailureThreshold != 5 || b.cfg.HalfOpenProbes != 2 || b.cfg.OpenTimeout != 15*time.Second {
		t.Fatalf("unexpected defaults: %+v", b.cfg)
	}
}
