// Package cache provides the optional Redis cache in front of catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is what the services need from a cache. Get reports a miss as
// (false, nil).
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	DeletePattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}

// Reporter is implemented by stores that count their own traffic.
type Reporter interface {
	Snapshot() StatsSnapshot
}

// Cache is the Redis store. Keys are namespaced with prefix and expire after ttl.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits, misses, sets, invalidated, failures atomic.Uint64
}

var (
	_ Store    = (*Cache)(nil)
	_ Reporter = (*Cache)(nil)
)

// StatsSnapshot is a point-in-time view of the cache counters. HitRate is a
// percentage of reads.
type StatsSnapshot struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Sets        uint64  `json:"sets"`
	Invalidated uint64  `json:"invalidated"`
	Errors      uint64  `json:"errors"`
	HitRate     float64 `json:"hitRate"`
}

// Config holds cache configuration.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return New(client, cfg.Prefix, cfg.TTL), nil
}

// Get decodes the cached JSON for key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return false, nil
	}
	if err != nil {
		c.failures.Add(1)
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.failures.Add(1)
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	c.hits.Add(1)
	return true, nil
}

// Set stores value as JSON under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.failures.Add(1)
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.failures.Add(1)
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	c.sets.Add(1)
	return nil
}

// DeletePattern drops every key matching the glob pattern, walking the
// keyspace with SCAN rather than KEYS.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+pattern, 100).Result()
		if err != nil {
			c.failures.Add(1)
			return fmt.Errorf("cache scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.failures.Add(1)
				return fmt.Errorf("cache delete %s: %w", pattern, err)
			}
			c.invalidated.Add(uint64(len(keys)))
		}
		if cursor = next; cursor == 0 {
			return nil
		}
	}
}

func (c *Cache) Snapshot() StatsSnapshot {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if reads := hits + misses; reads > 0 {
		rate = float64(hits) / float64(reads) * 100
	}
	return StatsSnapshot{
		Hits:        hits,
		Misses:      misses,
		Sets:        c.sets.Load(),
		Invalidated: c.invalidated.Load(),
		Errors:      c.failures.Load(),
		HitRate:     rate,
	}
}

// Ping is used by the health check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
