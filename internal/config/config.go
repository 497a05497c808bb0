package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
	"github.com/Fayaz1306/miniproject-spacetitanic/internal/security"
)

// Config holds server settings read from the environment
type Config struct {
	Port            string
	DataDir         string
	SubmitDelay     time.Duration
	SessionTTL      time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitPerMin int
	HistoryEnabled  bool
	AllowedOrigins  []string
	GinMode         string
	LogLevel        string
}

// Load reads the environment, applying defaults for unset keys
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          get("PORT", "8080"),
		DataDir:       get("DATA_DIR", "./data"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		GinMode:       get("GIN_MODE", "release"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SubmitDelay, err = time.ParseDuration(get("SUBMIT_DELAY", "1500ms")); err != nil || cfg.SubmitDelay < 0 {
		return nil, invalid("SUBMIT_DELAY", err)
	}
	// the form post waits the delay inside the request deadline
	if limit := security.DefaultConfig().RequestTimeout; cfg.SubmitDelay >= limit {
		return nil, invalid("SUBMIT_DELAY", fmt.Errorf("must be shorter than the %s request timeout", limit))
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "30m")); err != nil || cfg.SessionTTL <= 0 {
		return nil, invalid("SESSION_TTL", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil || cfg.RedisDB < 0 {
		return nil, invalid("REDIS_DB", err)
	}
	if cfg.RateLimitPerMin, err = strconv.Atoi(get("RATE_LIMIT_PER_MIN", "60")); err != nil || cfg.RateLimitPerMin <= 0 {
		return nil, invalid("RATE_LIMIT_PER_MIN", err)
	}
	if cfg.HistoryEnabled, err = strconv.ParseBool(get("HISTORY_ENABLED", "true")); err != nil {
		return nil, invalid("HISTORY_ENABLED", err)
	}

	for _, origin := range strings.Split(get("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

func invalid(key string, cause error) error {
	if cause == nil {
		cause = fmt.Errorf("%s out of range", key)
	}
	return apperrors.NewConfigurationError(fmt.Sprintf("invalid %s", key), cause)
}
