package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testCache(t *testing.T) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPlanCache(client), mr
}

func TestPlanCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	payload := []byte(`{"plan_id":"abc"}`)
	if err := c.Put(ctx, "k1", payload, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload = %s, want %s", got, payload)
	}
}

func TestPlanCacheKeysArePrefixed(t *testing.T) {
	c, mr := testCache(t)

	if err := c.Put(context.Background(), "k1", []byte("v"), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("plan:k1") {
		t.Fatalf("expected prefixed key, stored keys: %v", mr.Keys())
	}
}

func TestPlanCacheHonorsTTL(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "k1", []byte("v"), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, hit, err := c.Get(ctx, "k1"); err != nil || hit {
		t.Fatalf("expected expiry miss, got hit=%v err=%v", hit, err)
	}
}

func TestPlanCacheNilClient(t *testing.T) {
	c := &RedisPlanCache{}
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error for nil client")
	}
	if err := c.Put(context.Background(), "k", nil, 0); err == nil {
		t.Fatal("expected error for nil client")
	}
}
