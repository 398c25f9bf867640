package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys for a while so that a retried
// write is not applied twice.
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL. It returns false when the key
	// was already recorded and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes key, allowing the request to be retried after a failure.
	Forget(ctx context.Context, key string) error

	Close() error
}
