// Package cache provides an optional Redis read-through cache for entity
// lookups by id. The registry serves reference data that changes rarely and
// is read constantly, so Get-by-id results are cached with a short TTL and
// invalidated by the write services on update and delete.
//
// All methods are nil-receiver safe: when Redis is not configured New returns
// nil and every call degrades to a miss, so the services never branch on
// whether caching is enabled. Cache failures are soft: a read error counts
// as a miss and a write error is logged and dropped, never surfaced to the
// caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "georeg:entity:"

// Cache wraps a go-redis client with entity-keyed get/set/invalidate helpers.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache from a Redis URL. Returns nil (caching disabled) when
// the URL is empty.
func New(url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func entityKey(entityType string, id int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, entityType, id)
}

// Get unmarshals a cached entity into dest, reporting whether it was found
func (c *Cache) Get(ctx context.Context, entityType string, id int64, dest interface{}) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, entityKey(entityType, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("cache read failed", "entity_type", entityType, "id", id, "error", err)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("cache entry corrupt, dropping", "entity_type", entityType, "id", id, "error", err)
		c.Invalidate(ctx, entityType, id)
		return false
	}

	return true
}

// Set stores an entity under its type and id for the configured TTL
func (c *Cache) Set(ctx context.Context, entityType string, id int64, v interface{}) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache marshal failed", "entity_type", entityType, "id", id, "error", err)
		return
	}

	if err := c.client.Set(ctx, entityKey(entityType, id), raw, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "entity_type", entityType, "id", id, "error", err)
	}
}

// Invalidate removes an entity from the cache; called by the write services
// after a committed update or delete.
func (c *Cache) Invalidate(ctx context.Context, entityType string, id int64) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, entityKey(entityType, id)).Err(); err != nil {
		slog.Warn("cache invalidation failed", "entity_type", entityType, "id", id, "error", err)
	}
}

// Close releases the underlying Redis connection
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
