package rate

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// MemoryLimiter es un token bucket por key (golang.org/x/time/rate).
// Los buckets inactivos expiran del registro (go-cache).
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets *gocache.Cache
	now     func() time.Time
}

// NewMemoryLimiter crea el limiter en proceso.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: gocache.New(10*time.Minute, time.Minute),
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	m.now = now
	return m
}

func (m *MemoryLimiter) bucket(key string, limit int, window time.Duration) *xrate.Limiter {
	k := fmt.Sprintf("%d:%s:%s", limit, window, key)
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.buckets.Get(k); ok {
		// renueva la expiración del bucket activo
		m.buckets.Set(k, v, 2*window)
		return v.(*xrate.Limiter)
	}
	// recarga completa en una ventana, ráfaga = limit
	lim := xrate.NewLimiter(xrate.Every(window/time.Duration(limit)), limit)
	m.buckets.Set(k, lim, 2*window)
	return lim
}

// AllowWithLimits implementa MultiLimiter.
func (m *MemoryLimiter) AllowWithLimits(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, fmt.Errorf("rate: invalid policy %d/%s", limit, window)
	}
	now := m.now()
	lim := m.bucket(key, limit, window)

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); !r.OK() || delay > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, Remaining: 0, RetryAfter: delay, WindowTTL: window}, nil
	}
	remaining := int64(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:     true,
		Remaining:   remaining,
		WindowTTL:   window,
		CurrentHits: int64(limit) - remaining,
	}, nil
}
