// Package sessions provides the credential store: a key-value store with
// per-key expiry that holds opaque session tokens mapped to user ids.
package sessions

import (
	"context"
	"time"
)

// Store is a TTL key-value store. Get on an absent or expired key returns
// common.ErrNotFound; Del is idempotent.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}
