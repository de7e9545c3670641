package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatlens/chatlens/internal/model"
)

// Cache key prefixes and TTLs.
const (
	reportKeyPrefix   = "report:"
	negCacheKeySuffix = ":neg"

	// MaxReportTTL caps how long a report stays cached.
	MaxReportTTL = time.Hour

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// GetReport retrieves a report from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetReport(ctx context.Context, id string) (*model.Report, error) {
	key := reportKeyPrefix + id

	cmd := c.client.HGetAll(ctx, key)
	result, err := cmd.Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	var cached model.CachedReport
	if err := cmd.Scan(&cached); err != nil {
		return nil, fmt.Errorf("failed to scan cached report: %w", err)
	}

	report, err := cached.ToReport(id)
	if err != nil {
		// A corrupt entry is dropped and treated as a miss.
		c.client.Del(ctx, key)
		return nil, ErrCacheMiss
	}

	return report, nil
}

// SetReport stores a report in cache. The entry never outlives the report.
func (c *Cache) SetReport(ctx context.Context, report *model.Report) error {
	key := reportKeyPrefix + report.ID

	ttl := cacheTTL(time.Now(), report.ExpiresAt)
	if ttl <= 0 {
		c.client.Del(ctx, key, key+negCacheKeySuffix)
		return nil
	}

	cached, err := report.ToCachedReport()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, cached)
	pipe.Expire(ctx, key, ttl)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

// DeleteReport removes a report and its negative entry from cache.
func (c *Cache) DeleteReport(ctx context.Context, id string) error {
	key := reportKeyPrefix + id

	if err := c.client.Del(ctx, key, key+negCacheKeySuffix).Err(); err != nil {
		return fmt.Errorf("failed to delete report from cache: %w", err)
	}

	return nil
}

// IsNegativelyCached checks if a report ID is in negative cache.
func (c *Cache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	key := reportKeyPrefix + id + negCacheKeySuffix

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}

	return exists > 0, nil
}

// SetNegativeCache marks a report ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id string) error {
	key := reportKeyPrefix + id + negCacheKeySuffix

	if err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}

	return nil
}

// cacheTTL is MaxReportTTL capped at the time left before expiresAt.
func cacheTTL(now, expiresAt time.Time) time.Duration {
	ttl := MaxReportTTL
	if left := expiresAt.Sub(now); left < ttl {
		ttl = left
	}
	return ttl
}

