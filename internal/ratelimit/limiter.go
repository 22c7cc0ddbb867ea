package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Limiter - счетчик запросов в фиксированном окне, общий для всех экземпляров сервиса
type Limiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *Limiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Limiter{
		redis:  client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// Allow увеличивает счетчик ключа. При ошибке Redis запрос разрешается,
// а ошибка возвращается для логирования.
// Ключ без TTL получает окно на любом запросе, а не только на первом.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key)

	pipe := l.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}

	// -1 означает, что у ключа нет срока жизни
	if ttl.Val() < 0 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, fmt.Errorf("redis error: %w", err)
		}
	}

	return incr.Val() <= int64(l.limit), nil
}

// RetryAfter возвращает время до сброса окна
func (l *Limiter) RetryAfter(ctx context.Context, key string) time.Duration {
	ttl, err := l.redis.TTL(ctx, l.key(key)).Result()
	if err != nil || ttl <= 0 {
		return l.window
	}
	return ttl
}

func (l *Limiter) Limit() int {
	return l.limit
}

func (l *Limiter) key(key string) string {
	return fmt.Sprintf("%s:%s", l.prefix, key)
}
