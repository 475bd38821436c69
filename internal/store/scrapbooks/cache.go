package scrapbooks

import "context"

// Cache is the read-through document cache keyed by userId. Implementations
// are read-through with write-invalidate: the store deletes a key on every
// successful write so staleness stays bounded by the TTL.
type Cache interface {
	// Get returns the cached document bytes, or false on a miss. Entries
	// older than the TTL count as misses.
	Get(ctx context.Context, userID string) ([]byte, bool)
	Set(ctx context.Context, userID string, doc []byte)
	Delete(ctx context.Context, userID string)
	// Sweep drops stale entries independent of lookups. No-op when the
	// backend expires keys itself.
	Sweep(ctx context.Context)
}
