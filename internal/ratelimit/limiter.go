package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter grants an action at most once per cooldown window per key.
// When denied, it reports how long until the key frees up.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RedisLimiter implements the cooldown with SET NX EX, so the check and
// the claim are a single atomic operation shared across replicas.
type RedisLimiter struct {
	client   *redis.Client
	cooldown time.Duration
}

func NewRedisLimiter(client *redis.Client, cooldown time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, cooldown: cooldown}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	ok, err := l.client.SetNX(ctx, key, 1, l.cooldown).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to claim cooldown key: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read cooldown ttl: %w", err)
	}
	if ttl < 0 {
		ttl = l.cooldown
	}
	return false, ttl, nil
}

// MemoryLimiter is the single-process equivalent, used in tests and when
// no Redis address is configured.
type MemoryLimiter struct {
	mu       sync.Mutex
	claimed  map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

type MemoryOption func(*MemoryLimiter)

func WithNow(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemoryLimiter(cooldown time.Duration, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		claimed:  make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if until, ok := l.claimed[key]; ok && now.Before(until) {
		return false, until.Sub(now), nil
	}
	l.claimed[key] = now.Add(l.cooldown)
	return true, 0, nil
}

var (
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = (*MemoryLimiter)(nil)
)
