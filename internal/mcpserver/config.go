package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds configurable MCP server defaults, loaded once at
// startup from SPECFORGE_MCP_* environment variables.
type serverConfig struct {
	// WorkerLimit bounds per-operation parallel work within a stage.
	WorkerLimit int
	// LLMEnabled gates whether generate requests may enable payload
	// enhancement via llm_provider/llm_model.
	LLMEnabled bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from SPECFORGE_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		WorkerLimit: envInt("SPECFORGE_MCP_WORKER_LIMIT", 4),
		LLMEnabled:  envBool("SPECFORGE_MCP_LLM_ENABLED", false),
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
