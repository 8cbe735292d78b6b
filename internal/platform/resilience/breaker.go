package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without calling the guarded function while the breaker
// rejects traffic.
var ErrOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

type Config struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenProbes is both the number of concurrent probes let through
	// after OpenTimeout and the number of successes needed to close again.
	HalfOpenProbes int
	// OnStateChange is called outside the breaker lock.
	OnStateChange func(from, to State)
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = 2
	}
	return c
}

// Breaker counts consecutive failures of an upstream and short-circuits calls
// once they reach the threshold. A nil *Breaker lets every call through.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
}

// New returns nil when cfg is disabled.
func New(cfg Config) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	return &Breaker{cfg: cfg.withDefaults(), now: time.Now, state: StateClosed}
}

// State reports an expired open breaker as half open.
func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Run calls fn unless the breaker is open. Only errors accepted by isFailure
// count against the breaker; a nil isFailure counts every error. Context
// cancellation by the caller never counts.
func (b *Breaker) Run(ctx context.Context, fn func(context.Context) error, isFailure func(error) bool) error {
	_, err := Call(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, isFailure)
	return err
}

// Call is Run for functions that return a value.
func Call[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error), isFailure func(error) bool) (T, error) {
	if b == nil {
		return fn(ctx)
	}
	var zero T
	if err := b.acquire(); err != nil {
		return zero, err
	}

	out, err := fn(ctx)
	failed := err != nil && ctx.Err() == nil && (isFailure == nil || isFailure(err))
	b.release(failed)
	if err != nil {
		return zero, err
	}
	return out, nil
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	from := b.state
	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state, b.inFlight, b.successes = StateHalfOpen, 0, 0
	}
	if b.state == StateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenProbes {
			b.mu.Unlock()
			return ErrOpen
		}
		b.inFlight++
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return nil
}

func (b *Breaker) release(failed bool) {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case StateClosed:
		if !failed {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		if b.inFlight > 0 {
			b.inFlight--
		}
		if failed {
			b.trip()
			break
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenProbes && b.inFlight == 0 {
			b.state, b.failures, b.successes = StateClosed, 0, 0
		}
	case StateOpen:
		// A call admitted before the trip finished late.
		if failed {
			b.openedAt = b.now()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.inFlight, b.successes = 0, 0
}

func (b *Breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
