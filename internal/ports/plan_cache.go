package ports

import (
	"context"
	"time"
)

// Port: a cache for rendered tour plans, keyed by scenario digest plus
// planning parameters. Payloads are opaque to the cache.
type PlanCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}
