package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/angelmondragon/farmfresh-backend/pkg/redis"
)

// CatalogCache keeps the last good unfiltered catalog snapshot in Redis.
type CatalogCache struct {
	kv  pkgredis.KV
	key string
	ttl time.Duration
}

func NewCatalogCache(kv pkgredis.KV, key string, ttl time.Duration) (*CatalogCache, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if key == "" {
		return nil, fmt.Errorf("cache key required")
	}
	return &CatalogCache{kv: kv, key: key, ttl: ttl}, nil
}

// Load returns the cached snapshot. ok is false when nothing is cached.
func (c *CatalogCache) Load(ctx context.Context) ([]CatalogProduct, bool, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		if pkgredis.IsNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []CatalogProduct
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	return items, true, nil
}

// Store replaces the snapshot.
func (c *CatalogCache) Store(ctx context.Context, items []CatalogProduct) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}
	return c.kv.Set(ctx, c.key, string(payload), c.ttl)
}

// Invalidate drops the snapshot.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.kv.Del(ctx, c.key)
}
