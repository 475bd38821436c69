package scrapbooks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 150 * time.Millisecond

// RedisCache keeps documents in redis with a server-side TTL, for running
// more than one API process against the same storage. Every operation uses
// a short timeout and fails open: a broken cache degrades to storage reads,
// never to request failures.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	warned bool
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func redisBookKey(userID string) string {
	return "scrapbook:book:" + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) ([]byte, bool) {
	cctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	raw, err := c.rdb.Get(cctx, redisBookKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnOnce("get failed: %v (treating as miss)", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *RedisCache) Set(ctx context.Context, userID string, doc []byte) {
	cctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := c.rdb.Set(cctx, redisBookKey(userID), doc, c.ttl).Err(); err != nil {
		c.warnOnce("set failed: %v", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, userID string) {
	cctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	if err := c.rdb.Del(cctx, redisBookKey(userID)).Err(); err != nil {
		c.warnOnce("del failed: %v", err)
	}
}

// Sweep is a no-op: redis expires keys itself.
func (c *RedisCache) Sweep(context.Context) {}

func (c *RedisCache) warnOnce(format string, args ...any) {
	if c.warned {
		return
	}
	c.warned = true
	log.Printf("[BookCache] "+format, args...)
}
