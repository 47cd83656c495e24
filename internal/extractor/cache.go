package extractor

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"priceping/internal/model"
)

const cacheKeyPrefix = "priceping:extract:"

// cacheClient is the slice of *redis.Client the cache needs.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cached decorates an Extractor with a redis result cache. Onboarding uses
// it so that re-adding a URL shortly after the first add does not hit the
// scraping backend again; reconciliation always extracts fresh.
type Cached struct {
	Inner  Extractor
	Client cacheClient
	TTL    time.Duration
}

func NewCached(inner Extractor, client cacheClient, ttl time.Duration) *Cached {
	return &Cached{Inner: inner, Client: client, TTL: ttl}
}

func (c *Cached) Extract(ctx context.Context, url string) (*model.ExtractedProduct, error) {
	key := cacheKeyPrefix + url

	if val, err := c.Client.Get(ctx, key).Result(); err == nil {
		var rec model.ExtractedProduct
		if json.Unmarshal([]byte(val), &rec) == nil {
			return &rec, nil
		}
	}

	rec, err := c.Inner.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(rec); err == nil {
		if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
			log.Printf("[extractor] cache set failed for %s: %v", url, err)
		}
	}
	return rec, nil
}
