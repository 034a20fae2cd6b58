package llm

import (
	"sync"
	"time"
)

// breakerState is the circuit breaker's three-state machine (§4.9).
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker tracks consecutive failures for one provider and
// suppresses calls once a threshold is reached, the way specCacheStore
// guards its entries map: a single mutex around a small amount of state,
// sized for low contention rather than throughput.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold int
	cooldown  time.Duration

	state       breakerState
	failures    int
	openedAt    time.Time
	nowFn       func() time.Time
}

// NewCircuitBreaker builds a breaker that opens after threshold consecutive
// failures and half-opens cooldown after opening. threshold<=0 defaults to
// 5 and cooldown<=0 defaults to 30s, per §4.9's configurable defaults.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown, nowFn: time.Now}
}

// Allow reports whether a call may proceed. An open breaker past its
// cooldown transitions to half-open and allows exactly one trial call.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerOpen:
		if b.nowFn().Sub(b.openedAt) >= b.cooldown {
			b.state = breakerHalfOpen
			return true
		}
		return false
	case breakerHalfOpen:
		return false
	default:
		return true
	}
}

// RecordSuccess closes the breaker and resets its failure count.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerClosed
	b.failures = 0
}

// RecordFailure increments the consecutive-failure count and opens the
// breaker once it reaches threshold. A failure while half-open reopens
// immediately regardless of the threshold, since the trial call already
// proved the dependency is still failing.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == breakerHalfOpen {
		b.open()
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.open()
	}
}

func (b *CircuitBreaker) open() {
	b.state = breakerOpen
	b.openedAt = b.nowFn()
}

// Open reports whether the breaker is currently rejecting calls.
func (b *CircuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == breakerOpen
}
