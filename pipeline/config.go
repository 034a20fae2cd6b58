package pipeline

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the pipeline driver's and LLM enhancer's tunable defaults.
// Loaded once via LoadConfig from SPECFORGE_* environment variables,
// mirroring the teacher's envBool/envInt/envDuration loader shape.
type Config struct {
	// LLMEnabled gates whether the enhancer stage runs at all.
	LLMEnabled bool

	BreakerThreshold int
	BreakerCooldown  time.Duration
	BackoffBase      time.Duration
	MaxAttempts      int

	// WorkerLimit bounds per-operation parallel work within a stage (§5).
	WorkerLimit int

	// StoreKind selects the default Store implementation when the caller
	// does not supply one explicitly: "memory" or "filesystem".
	StoreKind string
	StoreDir  string
}

// LoadConfig reads configuration from SPECFORGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default,
// exactly as the teacher's loadConfig never fails construction.
func LoadConfig() Config {
	return Config{
		LLMEnabled:       envBool("SPECFORGE_LLM_ENABLED", false),
		BreakerThreshold: envInt("SPECFORGE_LLM_BREAKER_THRESHOLD", 5),
		BreakerCooldown:  envDuration("SPECFORGE_LLM_BREAKER_COOLDOWN", 30*time.Second),
		BackoffBase:      envDuration("SPECFORGE_LLM_BACKOFF_BASE", 2*time.Second),
		MaxAttempts:      envInt("SPECFORGE_LLM_MAX_ATTEMPTS", 3),
		WorkerLimit:      envInt("SPECFORGE_WORKER_LIMIT", 4),
		StoreKind:        envStoreKind("SPECFORGE_STORE_KIND"),
		StoreDir:         envString("SPECFORGE_STORE_DIR", ".specforge/artifacts"),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

var validStoreKinds = map[string]bool{"memory": true, "filesystem": true}

func envStoreKind(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return "memory"
	}
	if !validStoreKinds[v] {
		slog.Warn("invalid store kind env var, using default", "key", key, "value", v, "default", "memory")
		return "memory"
	}
	return v
}
