package upstream

import (
	"sync"
	"time"
)

// BreakerState represents the state of the upstream circuit breaker.
type BreakerState int

const (
	StateClosed   BreakerState = iota // healthy — requests flow
	StateOpen                         // unhealthy — requests blocked
	StateHalfOpen                     // probing — one request allowed
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker short-circuits calls to the upstream gateway when it keeps failing,
// probing again after a recovery interval. It never retries a request; it only
// decides whether the next one gets through.
type Breaker struct {
	mu sync.Mutex

	state    BreakerState
	failures int
	openedAt time.Time

	failureThreshold      int
	recoveryProbeInterval time.Duration
}

func NewBreaker(failureThreshold int, recoveryProbeInterval time.Duration) *Breaker {
	return &Breaker{
		state:                 StateClosed,
		failureThreshold:      failureThreshold,
		recoveryProbeInterval: recoveryProbeInterval,
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState returns state, transitioning OPEN→HALF_OPEN if the probe
// interval elapsed. Must be called with mu held.
func (b *Breaker) currentState() BreakerState {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.recoveryProbeInterval {
		b.state = StateHalfOpen
	}
	return b.state
}

// Allow returns true if a request should be allowed through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case StateClosed, StateHalfOpen:
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful upstream call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.state = StateClosed
	}
	b.failures = 0
}

// RecordFailure records a failed upstream call.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++

	switch b.state {
	case StateClosed:
		if b.failures >= b.failureThreshold {
			b.state = StateOpen
			b.openedAt = time.Now()
		}
	case StateHalfOpen:
		// Probe failed — reopen
		b.state = StateOpen
		b.openedAt = time.Now()
	}
}
