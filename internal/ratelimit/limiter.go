package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin   int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
}

// DefaultConfig returns default rate limiting configuration
func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:   60,
		CleanupInterval: 10 * time.Minute,
		IdleTimeout:     30 * time.Minute,
	}
}

// Metrics receives rate limiter counters
type Metrics interface {
	IncrementRateLimitIPBlock()
	IncrementRateLimitRedisError()
	IncrementRateLimitFallback()
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type fallbackEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP through Redis when available
// and an in-memory token bucket otherwise.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      Metrics

	fallbackMutex    sync.Mutex
	fallbackLimiters map[string]*fallbackEntry

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop
func NewRateLimiter(redisClient *RedisClient, config Config, metrics Metrics) *RateLimiter {
	if config.IPLimitPerMin <= 0 {
		config.IPLimitPerMin = DefaultConfig().IPLimitPerMin
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultConfig().IdleTimeout
	}
	if redisClient == nil {
		redisClient = &RedisClient{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*fallbackEntry),
		cancel:           cancel,
		done:             make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	go rl.cleanupLoop(ctx)

	return rl
}

// AllowIP checks the per-minute limit for an IP address
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	return rl.allow(ctx, ipKey(ip), rl.config.IPLimitPerMin, time.Minute)
}

// PeekIP reports the remaining allowance of an IP address without spending
// any of it
func (rl *RateLimiter) PeekIP(ctx context.Context, ip string) *Result {
	key := ipKey(ip)
	limit := rl.config.IPLimitPerMin

	if rl.redisLimiter != nil {
		// n=0 inspects the bucket without taking a token
		res, err := rl.redisLimiter.AllowN(ctx, key, redis_rate.PerMinute(limit), 0)
		if err == nil {
			return &Result{
				Allowed:   res.Remaining > 0,
				Limit:     limit,
				Remaining: res.Remaining,
				ResetAt:   time.Now().Add(res.ResetAfter),
			}
		}
		slog.Warn("Redis rate limit peek failed, using fallback", "key", key, "error", err)
	}

	return rl.peekFallback(key, limit, time.Minute)
}

// ResetIP forgets the recorded usage of an IP address
func (rl *RateLimiter) ResetIP(ctx context.Context, ip string) error {
	key := ipKey(ip)

	rl.fallbackMutex.Lock()
	delete(rl.fallbackLimiters, key)
	rl.fallbackMutex.Unlock()

	if rl.redisLimiter != nil {
		if err := rl.redisLimiter.Reset(ctx, key); err != nil {
			return fmt.Errorf("redis reset failed: %w", err)
		}
	}
	return nil
}

func ipKey(ip string) string {
	return fmt.Sprintf("ratelimit:ip:%s", ip)
}

func (rl *RateLimiter) allow(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	if rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key, limit, period)
		if err == nil {
			return result, nil
		}
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, limit, period), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, limit int, period time.Duration) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit,
		Burst:  limit,
		Period: period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (rl *RateLimiter) allowFallback(key string, limit int, period time.Duration) *Result {
	now := time.Now()

	rl.fallbackMutex.Lock()
	entry, exists := rl.fallbackLimiters[key]
	if !exists {
		entry = &fallbackEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(limit)/period.Seconds()), limit),
		}
		rl.fallbackLimiters[key] = entry
	}
	entry.lastSeen = now
	rl.fallbackMutex.Unlock()

	result := &Result{
		Allowed: entry.limiter.AllowN(now, 1),
		Limit:   limit,
		ResetAt: now.Add(period),
	}

	if remaining := int(entry.limiter.TokensAt(now)); remaining > 0 {
		result.Remaining = remaining
	}

	if !result.Allowed {
		// the delay until one token is available, without consuming it
		r := entry.limiter.ReserveN(now, 1)
		result.RetryAfter = r.DelayFrom(now)
		r.CancelAt(now)
		result.ResetAt = now.Add(result.RetryAfter)
	}

	return result
}

func (rl *RateLimiter) peekFallback(key string, limit int, period time.Duration) *Result {
	now := time.Now()
	result := &Result{Limit: limit, Remaining: limit, ResetAt: now.Add(period)}

	rl.fallbackMutex.Lock()
	entry, exists := rl.fallbackLimiters[key]
	rl.fallbackMutex.Unlock()

	if exists {
		result.Remaining = 0
		if tokens := int(entry.limiter.TokensAt(now)); tokens > 0 {
			result.Remaining = tokens
		}
	}
	result.Allowed = result.Remaining > 0
	return result
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	defer close(rl.done)

	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	removed := 0
	for key, entry := range rl.fallbackLimiters {
		if now.Sub(entry.lastSeen) > rl.config.IdleTimeout {
			delete(rl.fallbackLimiters, key)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Evicted idle fallback limiters", "removed", removed)
	}
	return removed
}

// Close stops the cleanup loop
func (rl *RateLimiter) Close() {
	rl.cancel()
	<-rl.done
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	return map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"ip_limit_per_min":  rl.config.IPLimitPerMin,
		"fallback_limiters": fallbackCount,
		"redis_pool":        rl.redisClient.GetPoolStats(),
	}
}
