package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Fayaz1306/miniproject-spacetitanic/internal/errors"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 1500*time.Millisecond, cfg.SubmitDelay)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.True(t, cfg.HistoryEnabled)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"PORT":               "9000",
		"SUBMIT_DELAY":       "0s",
		"SESSION_TTL":        "5m",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_DB":           "2",
		"RATE_LIMIT_PER_MIN": "10",
		"HISTORY_ENABLED":    "false",
		"ALLOWED_ORIGINS":    " https://a.example , ,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.SubmitDelay)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SUBMIT_DELAY", "soon"},
		{"SUBMIT_DELAY", "-1s"},
		{"SUBMIT_DELAY", "30s"},
		{"SUBMIT_DELAY", "2m"},
		{"SESSION_TTL", "0s"},
		{"REDIS_DB", "x"},
		{"RATE_LIMIT_PER_MIN", "0"},
		{"HISTORY_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := load(envFrom(map[string]string{tt.key: tt.value}))
			require.Error(t, err)

			appErr := apperrors.ToAppError(err)
			assert.Equal(t, apperrors.CategoryConfiguration, appErr.Category)
		})
	}
}

func TestLoad_SubmitDelayBelowRequestTimeout(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{"SUBMIT_DELAY": "29s"}))
	require.NoError(t, err)
	assert.Equal(t, 29*time.Second, cfg.SubmitDelay)
}
