package tracking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache backs click de-duplication and the stats read cache.
type Cache interface {
	// MarkClick returns true the first time linkID+ip is seen inside window.
	MarkClick(ctx context.Context, linkID, ip string, window time.Duration) (bool, error)
	// GetStats returns nil, nil on a miss.
	GetStats(ctx context.Context, productID string, r Range) (*ProductStats, error)
	SetStats(ctx context.Context, productID string, r Range, stats *ProductStats, ttl time.Duration) error
	InvalidateStats(ctx context.Context, productID string) error
}

// RedisCache implements Cache. Stats keys embed a per-product version that
// InvalidateStats bumps, so stale entries simply stop being read and expire.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) MarkClick(ctx context.Context, linkID, ip string, window time.Duration) (bool, error) {
	key := "tracking:click:" + linkID + ":" + hashIP(ip)
	return c.client.SetNX(ctx, key, 1, window).Result()
}

func (c *RedisCache) GetStats(ctx context.Context, productID string, r Range) (*ProductStats, error) {
	key, err := c.statsKey(ctx, productID, r)
	if err != nil {
		return nil, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ProductStats
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RedisCache) SetStats(ctx context.Context, productID string, r Range, stats *ProductStats, ttl time.Duration) error {
	key, err := c.statsKey(ctx, productID, r)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *RedisCache) InvalidateStats(ctx context.Context, productID string) error {
	return c.client.Incr(ctx, versionKey(productID)).Err()
}

func (c *RedisCache) statsKey(ctx context.Context, productID string, r Range) (string, error) {
	version, err := c.client.Get(ctx, versionKey(productID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("tracking:stats:%s:v%d:%s", productID, version, r.key()), nil
}

func versionKey(productID string) string {
	return "tracking:stats:version:" + productID
}

// IPs are hashed so raw addresses never land in redis.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

// NopCache is used when redis is not configured: every click is first-seen
// and stats are always recomputed.
type NopCache struct{}

func (NopCache) MarkClick(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func (NopCache) GetStats(context.Context, string, Range) (*ProductStats, error) { return nil, nil }

func (NopCache) SetStats(context.Context, string, Range, *ProductStats, time.Duration) error {
	return nil
}

func (NopCache) InvalidateStats(context.Context, string) error { return nil }
