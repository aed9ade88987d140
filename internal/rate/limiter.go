// Package rate limita requests por key (IP, IP+email).
//
// Dos backends implementan MultiLimiter: RedisLimiter (fixed window,
// compartido entre réplicas) y MemoryLimiter (token bucket en proceso).
package rate

import (
	"context"
	"time"
)

// Result es el veredicto de un hit.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter aplica una política fija.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// MultiLimiter aplica la política que se le pasa en cada llamada.
type MultiLimiter interface {
	AllowWithLimits(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Policy es un límite de requests por ventana.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Bind fija una política sobre un MultiLimiter.
func Bind(m MultiLimiter, p Policy) Limiter {
	return bound{m: m, p: p}
}

type bound struct {
	m MultiLimiter
	p Policy
}

func (b bound) Allow(ctx context.Context, key string) (Result, error) {
	return b.m.AllowWithLimits(ctx, key, b.p.Limit, b.p.Window)
}
