package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)

	assert.True(t, b.Allow())
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.Open())
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.True(t, b.Open())
	assert.False(t, b.Allow())
}

func TestCircuitBreakerHalfOpensAfterCooldown(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(1, 10*time.Second)
	b.nowFn = func() time.Time { return now }

	b.RecordFailure()
	assert.True(t, b.Open())
	assert.False(t, b.Allow())

	now = now.Add(5 * time.Second)
	assert.False(t, b.Allow())

	now = now.Add(10 * time.Second)
	assert.True(t, b.Allow())
}

func TestCircuitBreakerHalfOpenFailureReopensImmediately(t *testing.T) {
	now := time.Now()
	b := NewCircuitBreaker(5, 10*time.Second)
	b.nowFn = func() time.Time { return now }

	b.RecordFailure()
	assert.False(t, b.Open())

	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.True(t, b.Open())

	now = now.Add(11 * time.Second)
	assert.True(t, b.Allow())

	b.RecordFailure()
	assert.True(t, b.Open())
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.Open())
}

func TestNewCircuitBreakerDefaults(t *testing.T) {
	b := NewCircuitBreaker(0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
