package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in Redis so the window survives process
// restarts and is shared between replicas. Same fixed-window semantics
// as MemoryLimiter: the key expires one window after its first hit.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	cfg    Config
}

func NewRedis(rdb *redis.Client, prefix string, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		cfg:    cfg,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		l.rdb.Expire(ctx, k, l.cfg.Window)
	}

	return count <= int64(l.cfg.Max), nil
}
