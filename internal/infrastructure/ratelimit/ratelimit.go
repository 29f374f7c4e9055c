// Package ratelimit limita requisições por chave (normalmente o IP do cliente).
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decide se uma nova requisição da chave pode prosseguir
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter aplica uma janela fixa compartilhada entre instâncias
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	prefix string
}

// NewRedisLimiter cria um limitador de janela fixa no Redis
func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "pitchdeck:ratelimit:",
	}
}

// Allow implementa Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("erro ao incrementar contador: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("erro ao definir expiração: %w", err)
		}
	}

	return count <= l.limit, nil
}

// MemoryLimiter aplica um token bucket por chave dentro do processo
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	every    rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter cria um limitador com limit requisições por janela
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window * 2,
		lastGC:   time.Now(),
	}
}

// Allow implementa Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	if now.Sub(l.lastGC) > l.idle {
		for k, v := range l.limiters {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	return e.limiter.AllowN(now, 1), nil
}

// New escolhe a implementação: Redis quando há cliente, memória caso contrário.
// Retorna nil quando o limite é zero (desabilitado).
func New(client redis.UniversalClient, perMinute int) Limiter {
	if perMinute <= 0 {
		return nil
	}
	if client != nil {
		return NewRedisLimiter(client, perMinute, time.Minute)
	}
	return NewMemoryLimiter(perMinute, time.Minute)
}
