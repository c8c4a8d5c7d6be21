// Package resilience provides failover for speech-to-text backends.
//
// [Breaker] is a three-state circuit breaker (closed, open, half-open) that
// shields callers from a backend that keeps failing. [STTFallback] composes
// several [stt.Provider] instances behind per-backend breakers so a sick
// primary is skipped in favour of a healthy fallback.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by [Breaker.Do] while the breaker is open and the
// cooldown has not yet elapsed.
var ErrBreakerOpen = errors.New("breaker is open")

// BreakerState is the operating mode of a [Breaker].
type BreakerState int

const (
	// BreakerClosed forwards all calls.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects calls with [ErrBreakerOpen] until the cooldown
	// elapses.
	BreakerOpen

	// BreakerHalfOpen lets a limited number of probe calls through after the
	// cooldown. Enough successes close the breaker again; any failure
	// re-opens it.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes a [Breaker]. Zero fields get defaults.
type BreakerConfig struct {
	// Name labels the breaker in log output.
	Name string

	// FailureLimit is the number of consecutive failures that opens the
	// breaker. Default: 5.
	FailureLimit int

	// Cooldown is how long the breaker stays open before probing again.
	// Default: 30s.
	Cooldown time.Duration

	// ProbeLimit is the number of half-open probe calls. Default: 3.
	ProbeLimit int
}

// Breaker is a three-state circuit breaker. The zero value is not usable;
// construct one with [NewBreaker].
type Breaker struct {
	name         string
	failureLimit int
	cooldown     time.Duration
	probeLimit   int

	mu        sync.Mutex
	state     BreakerState
	failures  int
	openedAt  time.Time
	probes    int
	probeOKs  int
}

// NewBreaker creates a [Breaker] from cfg, filling in defaults for zero
// fields.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureLimit <= 0 {
		cfg.FailureLimit = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.ProbeLimit <= 0 {
		cfg.ProbeLimit = 3
	}
	return &Breaker{
		name:         cfg.Name,
		failureLimit: cfg.FailureLimit,
		cooldown:     cfg.Cooldown,
		probeLimit:   cfg.ProbeLimit,
	}
}

// Do runs fn unless the breaker is open. While half-open, only ProbeLimit
// calls are let through.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	switch b.state {
	case BreakerOpen:
		if time.Since(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		b.probes = 0
		b.probeOKs = 0
		slog.Info("breaker half-open", "name", b.name)

	case BreakerHalfOpen:
		if b.probes >= b.probeLimit {
			b.mu.Unlock()
			return ErrBreakerOpen
		}
	}

	probing := b.state == BreakerHalfOpen
	if probing {
		b.probes++
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure(probing)
	} else {
		b.onSuccess(probing)
	}
	return err
}

// onFailure must be called with b.mu held.
func (b *Breaker) onFailure(probing bool) {
	b.openedAt = time.Now()

	if probing {
		// One failed probe is enough to re-open.
		b.state = BreakerOpen
		b.failures = b.failureLimit
		slog.Warn("breaker re-opened", "name", b.name)
		return
	}

	b.failures++
	if b.failures >= b.failureLimit {
		b.state = BreakerOpen
		slog.Warn("breaker opened", "name", b.name, "failures", b.failures)
	}
}

// onSuccess must be called with b.mu held.
func (b *Breaker) onSuccess(probing bool) {
	if probing {
		b.probeOKs++
		if b.probeOKs >= b.probeLimit {
			b.state = BreakerClosed
			b.failures = 0
			b.probes = 0
			b.probeOKs = 0
			slog.Info("breaker closed", "name", b.name)
		}
		return
	}
	b.failures = 0
}

// State reports the breaker's state. An open breaker whose cooldown has
// elapsed reports [BreakerHalfOpen]; the actual transition happens on the
// next [Breaker.Do].
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

// Reset forces the breaker closed and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
	b.probes = 0
	b.probeOKs = 0
	slog.Info("breaker reset", "name", b.name)
}
