package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre go-cache.
type memoryClient struct {
	c      *gocache.Cache
	prefix string

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory crea un cliente en memoria. defaultTTL no se usa para Set
// (cada llamada pasa el suyo) pero define el intervalo de limpieza.
func NewMemory(prefix string, defaultTTL time.Duration) *memoryClient {
	cleanup := time.Minute
	if defaultTTL > 0 && defaultTTL < cleanup {
		cleanup = defaultTTL
	}
	return &memoryClient{
		c:      gocache.New(gocache.NoExpiration, cleanup),
		prefix: prefix,
	}
}

func (m *memoryClient) key(k string) string { return prefixed(m.prefix, k) }

func ttlOrNever(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return gocache.NoExpiration
	}
	return ttl
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(m.key(key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (m *memoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(m.key(key), value, ttlOrNever(ttl))
	return nil
}

func (m *memoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(m.key(key))
	return nil
}

func (m *memoryClient) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	full := m.key(prefix)
	var n int64
	for k := range m.c.Items() {
		if strings.HasPrefix(k, full) {
			m.c.Delete(k)
			n++
		}
	}
	return n, nil
}

func (m *memoryClient) Ping(context.Context) error { return nil }

func (m *memoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *memoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
