package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"photojay_admin/internal/model"
)

const (
	// StatsCacheKey holds the JSON-encoded admin dashboard counters
	StatsCacheKey = "admin:stats"

	// DefaultStatsCacheTTL bounds how stale the counters can get if an invalidation is lost
	DefaultStatsCacheTTL = 30 * time.Second
)

// StatsCache caches the admin dashboard counters between moderation writes.
type StatsCache interface {
	// Get returns the cached stats. found=false on a miss.
	Get(ctx context.Context) (stats model.AdminStats, found bool, err error)

	// Set stores stats with the cache TTL.
	Set(ctx context.Context, stats model.AdminStats) error

	// Invalidate drops the cached stats. Called after every listing write.
	Invalidate(ctx context.Context) error
}

// RedisStatsCache implements StatsCache with a single Redis string key.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new StatsCache backed by Redis.
func NewStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsCacheTTL
	}
	return &RedisStatsCache{client: client, ttl: ttl}
}

// Get reads and decodes the cached stats.
func (c *RedisStatsCache) Get(ctx context.Context) (model.AdminStats, bool, error) {
	raw, err := c.client.Get(ctx, StatsCacheKey).Bytes()
	if err == redis.Nil {
		log.Printf("[StatsCache] Get: MISS")
		return model.AdminStats{}, false, nil
	}
	if err != nil {
		log.Printf("[StatsCache] Get FAILED: err=%v", err)
		return model.AdminStats{}, false, fmt.Errorf("get stats: %w", err)
	}

	var stats model.AdminStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		log.Printf("[StatsCache] Get: corrupt entry dropped: err=%v", err)
		c.client.Del(ctx, StatsCacheKey)
		return model.AdminStats{}, false, nil
	}

	log.Printf("[StatsCache] Get: HIT")
	return stats, true, nil
}

// Set encodes and stores stats.
func (c *RedisStatsCache) Set(ctx context.Context, stats model.AdminStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	if err := c.client.Set(ctx, StatsCacheKey, raw, c.ttl).Err(); err != nil {
		log.Printf("[StatsCache] Set FAILED: err=%v", err)
		return fmt.Errorf("set stats: %w", err)
	}

	log.Printf("[StatsCache] Set OK: ttl=%v", c.ttl)
	return nil
}

// Invalidate deletes the cached stats.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, StatsCacheKey).Err(); err != nil {
		log.Printf("[StatsCache] Invalidate FAILED: err=%v", err)
		return fmt.Errorf("invalidate stats: %w", err)
	}

	log.Printf("[StatsCache] Invalidate OK")
	return nil
}
