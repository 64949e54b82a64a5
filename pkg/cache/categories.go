// Package cache provides a read-through cache for category aggregation
// results. Invalidation is generation based: every successful item write bumps
// a generation counter, which changes the key space and lets stale entries
// expire via their TTL.
package cache

import (
	"context"
	"time"

	"github.com/angelmondragon/inventory-backend/pkg/logger"
	"github.com/angelmondragon/inventory-backend/pkg/redis"
)

const genKeySuffix = "gen"

type store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Categories caches serialized aggregation payloads keyed by category.
type Categories struct {
	store store
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCategories builds the cache over the provided redis-backed store.
func NewCategories(s store, ttl time.Duration, logg *logger.Logger) *Categories {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Categories{store: s, ttl: ttl, logg: logg}
}

// Get returns the cached payload for the category, treating any cache fault
// as a miss so the caller falls through to the store.
func (c *Categories) Get(ctx context.Context, category string) ([]byte, bool) {
	key, err := c.key(ctx, category)
	if err != nil {
		c.warn(ctx, "cache generation lookup failed", err)
		return nil, false
	}
	val, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.warn(ctx, "cache read failed", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return []byte(val), true
}

// Set stores the payload for the category under the current generation.
func (c *Categories) Set(ctx context.Context, category string, payload []byte) {
	key, err := c.key(ctx, category)
	if err != nil {
		c.warn(ctx, "cache generation lookup failed", err)
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.warn(ctx, "cache write failed", err)
	}
}

// Invalidate bumps the generation so every cached aggregate becomes
// unreachable. Old entries age out through their TTL.
func (c *Categories) Invalidate(ctx context.Context) {
	if _, err := c.store.Incr(ctx, redis.Key("categories", genKeySuffix)); err != nil {
		c.warn(ctx, "cache invalidation failed", err)
	}
}

func (c *Categories) key(ctx context.Context, category string) (string, error) {
	gen, ok, err := c.store.Get(ctx, redis.Key("categories", genKeySuffix))
	if err != nil {
		return "", err
	}
	if !ok {
		gen = "0"
	}
	return redis.Key("categories", gen, category), nil
}

func (c *Categories) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "cache_error", err.Error()), msg)
}
