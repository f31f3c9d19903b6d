package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend implements Backend with a plain map. Nothing survives
// process exit; intended for tests and ephemeral runs.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte)}
}

// GetItem retrieves a value by key.
func (b *MemoryBackend) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// SetItem stores or updates a value.
func (b *MemoryBackend) SetItem(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[key] = append([]byte(nil), value...)
	return nil
}

// RemoveItem deletes a value by key.
func (b *MemoryBackend) RemoveItem(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.items, key)
	return nil
}

// Clear deletes every stored value.
func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = make(map[string][]byte)
	return nil
}

// GetAllKeys lists every stored key.
func (b *MemoryBackend) GetAllKeys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.items))
	for k := range b.items {
		keys = append(keys, k)
	}
	return keys, nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error { return nil }
