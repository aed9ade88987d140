package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("test", time.Minute)

	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("get = %q, %v", got, err)
	}
	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestMemoryTTLExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	_ = c.Set(ctx, "short", "v", 30*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	if _, err := c.Get(ctx, "short"); !IsNotFound(err) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("app", time.Minute)

	_ = c.Set(ctx, "permissions:u1", "a", 0)
	_ = c.Set(ctx, "permissions:u2", "b", 0)
	_ = c.Set(ctx, "other:u1", "c", 0)

	n, err := c.DeleteByPrefix(ctx, "permissions:")
	if err != nil || n != 2 {
		t.Fatalf("deleted = %d, %v", n, err)
	}
	if _, err := c.Get(ctx, "other:u1"); err != nil {
		t.Fatalf("unrelated key removed: %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				_ = c.Set(ctx, "permissions:u1", "[]", time.Minute)
				_, _ = c.Get(ctx, "permissions:u1")
				_, _ = c.DeleteByPrefix(ctx, "permissions:")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestMemoryStats(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("", time.Minute)
	_ = c.Set(ctx, "a", "1", 0)
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "missing")

	st, _ := c.Stats(ctx)
	if st.Driver != "memory" || st.Keys != 1 || st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), Config{Driver: "memcached"}); err == nil {
		t.Fatal("expected error")
	}
}
