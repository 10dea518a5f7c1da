package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/muzz-match/internal/config"
	"github.com/oggyb/muzz-match/internal/metrics"
)

// LikeCountTTL is refreshed on every read and write of a like counter.
const LikeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's "liked you" count.
func KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// SetLikeCount stores the count and refreshes its TTL.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count int64) error {
	return c.Client.Set(ctx, KeyForLikeCount(userID), count, LikeCountTTL).Err()
}

// GetLikeCount returns the cached count. ok is false on a cache miss, so a
// cached zero stays distinguishable from no entry.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (count int64, ok bool, err error) {
	key := KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	count, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry: drop it and treat as a miss
		_ = c.Client.Del(ctx, key).Err()
		metrics.CacheMisses.Inc()
		return 0, false, nil
	}

	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, LikeCountTTL).Err()
	metrics.CacheHits.Inc()
	return count, true, nil
}

// InvalidateLikeCount drops the cached counts of the given users.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, KeyForLikeCount(id))
	}
	return c.Client.Del(ctx, keys...).Err()
}
