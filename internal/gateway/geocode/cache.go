package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Cache is a short-TTL redis cache for geocode lookups, keyed by country
// scope and normalized query. Nominatim asks heavy users to cache identical
// requests; a miss or a redis error always falls through to the live API.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewCache wraps client with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

func cacheKey(countryCode, place string) string {
	return fmt.Sprintf("geocode:%s:%s", countryCode, strings.ToLower(strings.TrimSpace(place)))
}

// Get returns the cached result for place, if present.
func (c *Cache) Get(ctx context.Context, countryCode, place string) (PlaceResult, bool) {
	raw, err := c.client.Get(ctx, cacheKey(countryCode, place)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("geocode cache read failed")
		}
		return PlaceResult{}, false
	}

	var result PlaceResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.log.WithError(err).Warn("geocode cache entry corrupt")
		return PlaceResult{}, false
	}
	return result, true
}

// Set stores result for place. Errors are logged, never surfaced.
func (c *Cache) Set(ctx context.Context, countryCode, place string, result PlaceResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(countryCode, place), raw, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("geocode cache write failed")
	}
}
