// Package cache provides the Redis-backed listing cache.
//
// Selling/exchange listing pages are cached for a short TTL and dropped
// whenever a product is created, edited or deleted. Redis is optional:
// a nil client turns every operation into a no-op so the API keeps
// working without it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ListingTTL bounds how stale a cached listing page can get.
const ListingTTL = 30 * time.Second

const listingKeyPrefix = "listing:"

// Cache wraps the Redis client used for listing responses.
type Cache struct {
	client *redis.Client
	logger *zerolog.Logger
}

// New constructs a Cache. client may be nil when Redis is unavailable.
func New(client *redis.Client, logger *zerolog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// ListingKey builds the cache key for one listing page.
// kind is "selling" or "exchange".
func ListingKey(kind string, limit, skip int) string {
	return fmt.Sprintf("%s%s:%d:%d", listingKeyPrefix, kind, limit, skip)
}

// GetListing returns the cached payload for a listing page, if present.
func (c *Cache) GetListing(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("listing cache read failed")
		}
		return nil, false
	}
	return payload, true
}

// SetListing stores a listing page payload with the standard TTL.
// Cache write failures are logged and ignored.
func (c *Cache) SetListing(ctx context.Context, key string, payload []byte) {
	if c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, payload, ListingTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("listing cache write failed")
	}
}

// InvalidateListings drops every cached listing page.
func (c *Cache) InvalidateListings(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	iter := c.client.Scan(ctx, 0, listingKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning listing cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting listing cache keys: %w", err)
	}

	c.logger.Debug().Int("keys", len(keys)).Msg("invalidated listing cache")
	return nil
}
