package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379
func newTestRedis(t *testing.T) *redisClient {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewRedis(context.Background(), Config{Addr: addr, Prefix: "test-" + uuid.NewString()})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() {
		_, _ = c.DeleteByPrefix(context.Background(), "")
		_ = c.Close()
	})
	return c
}

func TestRedisRoundTripAndPrefixDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	_ = c.Set(ctx, "permissions:u1", "[]", time.Minute)
	_ = c.Set(ctx, "permissions:u2", "[]", time.Minute)
	_ = c.Set(ctx, "keep", "x", time.Minute)

	if v, err := c.Get(ctx, "permissions:u1"); err != nil || v != "[]" {
		t.Fatalf("get = %q, %v", v, err)
	}
	n, err := c.DeleteByPrefix(ctx, "permissions:")
	if err != nil || n != 2 {
		t.Fatalf("deleted = %d, %v", n, err)
	}
	if _, err := c.Get(ctx, "permissions:u2"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := c.Get(ctx, "keep"); err != nil {
		t.Fatalf("keep: %v", err)
	}
}
