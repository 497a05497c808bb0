package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned by operations on a client without a connection
var ErrRedisDisabled = errors.New("redis is disabled")

// RedisConfig describes the shared limiter store
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	ConnectWait time.Duration
}

// NewRedisConfig fills pool sizing around the connection settings
func NewRedisConfig(addr, password string, db int) RedisConfig {
	return RedisConfig{
		Addr:        addr,
		Password:    password,
		DB:          db,
		PoolSize:    10,
		ConnectWait: 5 * time.Second,
	}
}

func (c RedisConfig) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   2,
		DialTimeout:  c.ConnectWait,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     c.PoolSize,
		MinIdleConns: 1,
		PoolTimeout:  2 * time.Second,
	}
}

// PoolStats is a snapshot of the connection pool
type PoolStats struct {
	Enabled    bool   `json:"enabled"`
	Addr       string `json:"addr,omitempty"`
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

// RedisClient holds the optional Redis connection behind the limiter.
// The zero value is a disabled client.
type RedisClient struct {
	client *redis.Client
	addr   string
}

// NewRedisClient connects with cfg. An empty address yields a disabled
// client and no error; an unreachable server yields a disabled client and
// the ping error.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*RedisClient, error) {
	if cfg.Addr == "" {
		slog.Info("Redis not configured, rate limiting will use in-memory buckets")
		return &RedisClient{}, nil
	}

	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectWait)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return &RedisClient{addr: cfg.Addr}, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	slog.Info("Redis client connected", "addr", cfg.Addr, "db", cfg.DB, "pool_size", cfg.PoolSize)
	return &RedisClient{client: client, addr: cfg.Addr}, nil
}

// GetClient returns the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// IsEnabled reports whether Redis is connected
func (r *RedisClient) IsEnabled() bool {
	return r != nil && r.client != nil
}

// Ping measures a round trip to Redis
func (r *RedisClient) Ping(ctx context.Context) (time.Duration, error) {
	if !r.IsEnabled() {
		return 0, ErrRedisDisabled
	}
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("redis ping %s: %w", r.addr, err)
	}
	return time.Since(start), nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if !r.IsEnabled() {
		return nil
	}
	return r.client.Close()
}

// GetPoolStats returns connection pool statistics
func (r *RedisClient) GetPoolStats() PoolStats {
	if !r.IsEnabled() {
		return PoolStats{}
	}

	stats := r.client.PoolStats()
	return PoolStats{
		Enabled:    true,
		Addr:       r.addr,
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
