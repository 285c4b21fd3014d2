package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps failure counters in Redis so that every replica sees the same limit.
// Each counter expires one window after its first failure.
type RedisLimiter struct {
	rdb       *redis.Client
	limit     int
	window    time.Duration
	namespace string
}

var _ AttemptLimiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a RedisLimiter. An empty namespace defaults to "login".
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, namespace string) *RedisLimiter {
	if namespace == "" {
		namespace = "login"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, namespace: namespace}
}

func (l *RedisLimiter) key(key string) string {
	return fmt.Sprintf("%s:attempts:%s", l.namespace, key)
}

// Blocked reports whether the stored counter has reached the limit.
func (l *RedisLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return false, nil
	}
	n, err := l.rdb.Get(ctx, l.key(key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return n >= l.limit, nil
}

// RecordFailure increments the counter and starts its window on the first failure.
func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	k := l.key(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.rdb.Expire(ctx, k, l.window).Err()
	}
	return nil
}

// Reset deletes the counter.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.key(key)).Err()
}
