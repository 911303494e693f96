// Package cache holds the plan cache adapters. Solver-backed planning can
// take seconds to minutes, so rendered plans are cached by scenario digest
// plus planning parameters and replayed on identical requests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopping-tour-service/internal/platform/obs"
)

// Redis-backed implementation of the PlanCache port.
type RedisPlanCache struct {
	Client *redis.Client
	Prefix string
}

func NewRedisPlanCache(client *redis.Client) *RedisPlanCache {
	return &RedisPlanCache{Client: client, Prefix: "plan:"}
}

// Get fetches one cached plan payload; a missing key is not an error.
func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "plan.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("plan cache: client is nil")
	}

	payload, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get plan cache: key %q: %w", key, err)
	}
	return payload, true, nil
}

// Put stores one rendered plan payload with a TTL.
func (c *RedisPlanCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if c.Client == nil {
		return errors.New("plan cache: client is nil")
	}

	if err := c.Client.Set(ctx, c.Prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("put plan cache: key %q: %w", key, err)
	}
	return nil
}
