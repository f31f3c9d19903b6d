// Package kvstore provides the on-device key-value persistence layer:
// JSON values under string keys, written through to a durable Backend
// and cached in memory for repeated reads.
//
// The cache is read-through only. Writes always hit the backend first
// and the cache is updated only after the write succeeds, so the cache
// can never run ahead of durable storage. Entries leave the cache only
// via Remove or Clear.
package kvstore

import "context"

// Backend is the underlying storage primitive. Implementations store
// opaque byte values; all JSON handling lives in Store.
type Backend interface {
	// GetItem returns the stored value for key. The second result is
	// false when the key is absent.
	GetItem(ctx context.Context, key string) ([]byte, bool, error)

	// SetItem stores value under key (upsert).
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes key. Missing keys are not an error.
	RemoveItem(ctx context.Context, key string) error

	// Clear deletes every key.
	Clear(ctx context.Context) error

	// GetAllKeys lists every stored key.
	GetAllKeys(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}
