// Package cache provides a Redis-backed read-through cache for shop records.
// Shops are written once at onboarding and read on every reservation, which
// makes them a good fit for caching. The cache is strictly optional: a nil
// *ShopCache, a nil client, or any Redis error behaves as a miss, and the
// caller falls back to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-barber-booking/internal/config"
	"github.com/tbourn/go-barber-booking/internal/domain"
)

const keyPrefix = "barber:shop:"

// NewClient builds a Redis client from cfg and pings it with a short
// timeout. It returns nil when cfg.Addr is empty or the server is
// unreachable, in which case callers should run without a cache.
func NewClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unreachable; shop cache disabled")
		_ = client.Close()
		return nil
	}
	return client
}

// ShopCache stores JSON-encoded shops under barber:shop:<id>.
type ShopCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewShopCache wraps rdb. A nil rdb yields a cache that always misses.
func NewShopCache(rdb *redis.Client, ttl time.Duration) *ShopCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ShopCache{rdb: rdb, ttl: ttl}
}

func (c *ShopCache) enabled() bool { return c != nil && c.rdb != nil }

// Get returns the cached shop, or (nil, false) on miss or error.
func (c *ShopCache) Get(ctx context.Context, id string) (*domain.Shop, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Ctx(ctx).Debug().Err(err).Str("shop_id", id).Msg("shop cache get failed")
		}
		return nil, false
	}
	var s domain.Shop
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("shop_id", id).Msg("shop cache entry corrupt")
		return nil, false
	}
	return &s, true
}

// Set stores s for the configured TTL. Failures are logged and ignored.
func (c *ShopCache) Set(ctx context.Context, s *domain.Shop) {
	if !c.enabled() || s == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+s.ID, raw, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("shop_id", s.ID).Msg("shop cache set failed")
	}
}

// Invalidate drops the entry for id.
func (c *ShopCache) Invalidate(ctx context.Context, id string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("shop_id", id).Msg("shop cache invalidate failed")
	}
}
