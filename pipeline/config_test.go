package pipeline

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	assert.False(t, cfg.LLMEnabled)
	assert.Equal(t, 5, cfg.BreakerThreshold)
	assert.Equal(t, 30*time.Second, cfg.BreakerCooldown)
	assert.Equal(t, 2*time.Second, cfg.BackoffBase)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "memory", cfg.StoreKind)
}

func TestLoadConfigReadsEnv(t *testing.T) {
	t.Setenv("SPECFORGE_LLM_ENABLED", "true")
	t.Setenv("SPECFORGE_LLM_BREAKER_THRESHOLD", "9")
	t.Setenv("SPECFORGE_STORE_KIND", "filesystem")

	cfg := LoadConfig()
	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, 9, cfg.BreakerThreshold)
	assert.Equal(t, "filesystem", cfg.StoreKind)
}

func TestLoadConfigFallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("SPECFORGE_LLM_BREAKER_THRESHOLD", "not-a-number")
	t.Setenv("SPECFORGE_STORE_KIND", "not-a-kind")

	cfg := LoadConfig()
	assert.Equal(t, 5, cfg.BreakerThreshold)
	assert.Equal(t, "memory", cfg.StoreKind)
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
