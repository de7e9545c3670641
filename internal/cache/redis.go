// Package cache holds cached reports and upload rate-limit buckets in Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PoolConfig sizes the Redis connection pool. Zero fields keep the defaults.
type PoolConfig struct {
	PoolSize     int
	MinIdleConns int
}

// DefaultPoolConfig suits a single API instance.
var DefaultPoolConfig = PoolConfig{PoolSize: 10, MinIdleConns: 2}

func (p PoolConfig) apply(opt *redis.Options) {
	opt.PoolSize = DefaultPoolConfig.PoolSize
	if p.PoolSize > 0 {
		opt.PoolSize = p.PoolSize
	}
	opt.MinIdleConns = min(DefaultPoolConfig.MinIdleConns, opt.PoolSize)
	if p.MinIdleConns > 0 {
		opt.MinIdleConns = min(p.MinIdleConns, opt.PoolSize)
	}
	opt.PoolTimeout = poolTimeout
	opt.ConnMaxIdleTime = connMaxIdleTime
}

const (
	poolTimeout     = 4 * time.Second
	connMaxIdleTime = 5 * time.Minute
)

// Cache stores reports, negative lookups and rate-limit buckets.
type Cache struct {
	client *redis.Client
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, pool PoolConfig) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	pool.apply(opt)

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
