package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/music-catalog/internal/events"
)

const (
	cachePrefixSongs  = "catalog:songs:"
	cachePrefixAlbums = "catalog:albums:"
)

// CatalogCache is a redis-backed read-through cache for public catalog
// listings. Misses and redis failures both fall through to the database, so
// the cache is never load-bearing.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache builds the cache. A nil client disables caching entirely.
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl, logger: logger}
}

// Get loads a cached value into dest, reporting whether it was present.
func (c *CatalogCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a value under the key with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, key string, val any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix drops every key under the prefix.
func (c *CatalogCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.client == nil {
		return
	}
	keys, err := c.client.Keys(ctx, prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
	}
}

// RegisterInvalidation subscribes the cache to catalog mutation events so
// stale listings never outlive a write by more than the event dispatch.
func (c *CatalogCache) RegisterInvalidation(dispatcher events.Dispatcher) {
	if c == nil || dispatcher == nil {
		return
	}
	songHandler := func(ctx context.Context, _ events.Event) error {
		c.InvalidatePrefix(ctx, cachePrefixSongs)
		return nil
	}
	albumHandler := func(ctx context.Context, _ events.Event) error {
		c.InvalidatePrefix(ctx, cachePrefixAlbums)
		// Album membership changes what counts as a single.
		c.InvalidatePrefix(ctx, cachePrefixSongs)
		return nil
	}

	dispatcher.Subscribe(events.EventSongCreated, songHandler)
	dispatcher.Subscribe(events.EventSongUpdated, songHandler)
	dispatcher.Subscribe(events.EventSongDeleted, songHandler)
	dispatcher.Subscribe(events.EventAlbumCreated, albumHandler)
	dispatcher.Subscribe(events.EventAlbumUpdated, albumHandler)
	dispatcher.Subscribe(events.EventAlbumDeleted, albumHandler)
}
