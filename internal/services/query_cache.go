package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"grounded-chat/internal/db"
)

const (
	queryCachePrefix     = "embedding:"
	defaultQueryCacheTTL = 5 * time.Minute
)

// QueryCache caches standalone-query embeddings in Redis so repeated
// questions skip the embedding gateway. All failures are soft: a miss or a
// Redis error just falls through to the gateway.
type QueryCache struct {
	redis  *db.RedisClient
	ttl    time.Duration
	logger *log.Logger
}

// NewQueryCache creates a Redis-backed embedding cache
func NewQueryCache(redis *db.RedisClient, ttl time.Duration, logger *log.Logger) *QueryCache {
	if ttl == 0 {
		ttl = defaultQueryCacheTTL
	}
	return &QueryCache{
		redis:  redis,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached embedding for a query, or nil on miss
func (c *QueryCache) Get(ctx context.Context, query string) []float32 {
	raw, err := c.redis.Get(ctx, queryCachePrefix+query)
	if err != nil {
		return nil
	}

	var embedding []float32
	if err := json.Unmarshal([]byte(raw), &embedding); err != nil {
		c.logger.Printf("Dropping corrupt cache entry for query %q: %v", query, err)
		return nil
	}
	return embedding
}

// Set stores a query embedding with the cache TTL, best effort
func (c *QueryCache) Set(ctx context.Context, query string, embedding []float32) {
	raw, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, queryCachePrefix+query, raw, c.ttl); err != nil {
		c.logger.Printf("Failed to cache embedding for query %q: %v", query, err)
	}
}

// Clear removes all cached embeddings
func (c *QueryCache) Clear(ctx context.Context) error {
	keys, err := c.redis.Keys(ctx, queryCachePrefix+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...)
}
