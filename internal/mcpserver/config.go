package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oasresolve/resolver"
	"github.com/erraggy/oasresolve/validator"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Document cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Loading defaults.
	StrictKeys bool

	// Resolve tool defaults.
	RecursionLimit int
	Scope          resolver.Scope

	// Validate tool defaults.
	Backend            validator.Kind
	ValidateStrict     bool
	ValidateNoWarnings bool

	// Limits.
	MaxInlineSize   int64
	MaxLimit        int
	DefaultLimit    int
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASRESOLVE_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASRESOLVE_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASRESOLVE_MCP_CACHE_MAX_SIZE", 50),
		CacheTTL:           envDuration("OASRESOLVE_MCP_CACHE_TTL", 5*time.Minute),
		CacheSweepInterval: envDuration("OASRESOLVE_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		StrictKeys:         envBool("OASRESOLVE_MCP_STRICT_KEYS", true),
		RecursionLimit:     envInt("OASRESOLVE_MCP_RECURSION_LIMIT", resolver.DefaultRecursionLimit),
		Scope:              envScope("OASRESOLVE_MCP_SCOPE"),
		Backend:            envBackend("OASRESOLVE_MCP_BACKEND"),
		ValidateStrict:     envBool("OASRESOLVE_MCP_VALIDATE_STRICT", false),
		ValidateNoWarnings: envBool("OASRESOLVE_MCP_VALIDATE_NO_WARNINGS", false),
		MaxInlineSize:      int64(envInt("OASRESOLVE_MCP_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxLimit:           envInt("OASRESOLVE_MCP_MAX_LIMIT", 1000),
		DefaultLimit:       envInt("OASRESOLVE_MCP_DEFAULT_LIMIT", 100),
		AllowPrivateIPs:    envBool("OASRESOLVE_MCP_ALLOW_PRIVATE_IPS", false),
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

// envScope returns the scope named by key, or 0 to let the resolver pick its
// default for the mode.
func envScope(key string) resolver.Scope {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	s, err := resolver.ParseScope(v)
	if err != nil {
		slog.Warn("invalid scope env var, ignoring", "key", key, "value", v)
		return 0
	}
	return s
}

func envBackend(key string) validator.Kind {
	k, err := validator.ParseKind(os.Getenv(key))
	if err != nil {
		slog.Warn("invalid backend env var, using default", "key", key, "value", os.Getenv(key), "default", validator.DefaultKind)
		return validator.DefaultKind
	}
	return k
}
