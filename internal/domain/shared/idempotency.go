package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of operations that already ran, so a
// retried request carrying the same key is not applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key, allowing the operation to run again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultIdempotencyTTL is how long a key is remembered when no TTL is configured
const DefaultIdempotencyTTL = 24 * time.Hour
