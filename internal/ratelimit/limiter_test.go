package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	blocks, redisErrors, fallbacks int
}

func (m *countingMetrics) IncrementRateLimitIPBlock()    { m.blocks++ }
func (m *countingMetrics) IncrementRateLimitRedisError() { m.redisErrors++ }
func (m *countingMetrics) IncrementRateLimitFallback()   { m.fallbacks++ }

func newTestLimiter(t *testing.T, perMin int, metrics Metrics) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(&RedisClient{}, Config{IPLimitPerMin: perMin, CleanupInterval: time.Hour}, metrics)
	t.Cleanup(rl.Close)
	return rl
}

func TestNewRedisClient_DisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(context.Background(), NewRedisConfig("", "", 0))
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	_, err = client.Ping(context.Background())
	assert.ErrorIs(t, err, ErrRedisDisabled)
	assert.NoError(t, client.Close())
	assert.Equal(t, PoolStats{}, client.GetPoolStats())
}

func TestNewRedisClient_UnreachableIsDisabled(t *testing.T) {
	cfg := NewRedisConfig("127.0.0.1:1", "", 0)
	cfg.ConnectWait = 200 * time.Millisecond

	client, err := NewRedisClient(context.Background(), cfg)
	assert.Error(t, err)
	require.NotNil(t, client)
	assert.False(t, client.IsEnabled())
}

func TestRateLimiter_PeekDoesNotConsume(t *testing.T) {
	rl := newTestLimiter(t, 3, nil)
	ctx := context.Background()

	peek := rl.PeekIP(ctx, "10.0.0.9")
	assert.Equal(t, 3, peek.Remaining)
	assert.True(t, peek.Allowed)

	_, err := rl.AllowIP(ctx, "10.0.0.9")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 2, rl.PeekIP(ctx, "10.0.0.9").Remaining)
	}

	res, err := rl.AllowIP(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiter_FallbackBlocksAfterLimit(t *testing.T) {
	metrics := &countingMetrics{}
	rl := newTestLimiter(t, 5, metrics)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := rl.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := rl.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))

	// other clients are unaffected
	result, err = rl.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	assert.Equal(t, 7, metrics.fallbacks)
	assert.Equal(t, 0, metrics.redisErrors)
}

func TestRateLimiter_ResetIP(t *testing.T) {
	rl := newTestLimiter(t, 1, nil)
	ctx := context.Background()

	first, _ := rl.AllowIP(ctx, "10.0.0.1")
	second, _ := rl.AllowIP(ctx, "10.0.0.1")
	assert.True(t, first.Allowed)
	assert.False(t, second.Allowed)

	require.NoError(t, rl.ResetIP(ctx, "10.0.0.1"))

	third, _ := rl.AllowIP(ctx, "10.0.0.1")
	assert.True(t, third.Allowed)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := newTestLimiter(t, 10, nil)
	_, _ = rl.AllowIP(context.Background(), "10.0.0.1")

	assert.Equal(t, 0, rl.evictIdle(time.Now()))
	assert.Equal(t, 1, rl.evictIdle(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, rl.GetStats()["fallback_limiters"])
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := &countingMetrics{}
	rl := newTestLimiter(t, 2, metrics)

	r := gin.New()
	r.Use(rl.IPRateLimitMiddleware())
	r.GET("/api/insights", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/insights", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate_limit")
	assert.Equal(t, 1, metrics.blocks)
}
