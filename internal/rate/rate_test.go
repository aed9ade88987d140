package rate_test

import (
	"context"
	"os"
	"testing"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/jeancarlosleonvega/admin-dashboard/internal/rate"
)

func TestMemoryLimiterBlocksAfterBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lim := rate.NewMemoryLimiter().WithClock(func() time.Time { return now })
	l := rate.Bind(lim, rate.Policy{Limit: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil || !res.Allowed {
			t.Fatalf("hit %d: allowed=%v err=%v", i, res.Allowed, err)
		}
	}
	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("4th hit must be limited")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > 20*time.Second {
		t.Fatalf("RetryAfter = %v, want (0, 20s]", res.RetryAfter)
	}

	// otra key tiene su propio bucket
	if res, _ := l.Allow(ctx, "5.6.7.8"); !res.Allowed {
		t.Fatal("independent key must be allowed")
	}

	// un token se recarga cada window/limit
	now = now.Add(20 * time.Second)
	if res, _ := l.Allow(ctx, "1.2.3.4"); !res.Allowed {
		t.Fatal("refilled token must be allowed")
	}
}

func TestMemoryLimiterRejectsInvalidPolicy(t *testing.T) {
	if _, err := rate.NewMemoryLimiter().AllowWithLimits(context.Background(), "k", 0, time.Minute); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	l := rate.Bind(rate.NewRedisLimiter(client, "rltest:"+time.Now().Format("150405.000")+":"), rate.Policy{Limit: 2, Window: time.Minute})
	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "k")
		if err != nil || !res.Allowed {
			t.Fatalf("hit %d: allowed=%v err=%v", i, res.Allowed, err)
		}
	}
	res, err := l.Allow(ctx, "k")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed || res.RetryAfter <= 0 {
		t.Fatalf("3rd hit: %+v", res)
	}
}
