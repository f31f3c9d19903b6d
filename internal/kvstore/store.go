package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/cpdlog/cpdlog/internal/observability"
)

// KeyValue is one key with its raw JSON value, as returned by MultiGet
// and accepted by MultiSet. A nil Value in a MultiGet result means the
// key was absent or unreadable.
type KeyValue struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Store is the cached JSON key-value store over a Backend.
//
// Read failures are logged and surfaced as "not found"; write failures
// propagate to the caller and leave the cache untouched.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	log      *observability.Logger
	counters *observability.Counters
	cache    map[string]json.RawMessage
}

// New creates a Store over the given backend. A nil logger or counter
// set is replaced with a silent one.
func New(backend Backend, log *observability.Logger, counters *observability.Counters) *Store {
	if log == nil {
		log = observability.NewLogger("kvstore", io.Discard, "json", "error")
	}
	if counters == nil {
		counters = observability.NewCounters()
	}
	return &Store{
		backend:  backend,
		log:      log,
		counters: counters,
		cache:    make(map[string]json.RawMessage),
	}
}

// Get decodes the value stored under key into dest. It reports false
// when the key is absent or the read or decode fails; failures are
// logged, never returned. Repeated reads of an unchanged key are served
// from the cache.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.cache[key]
	if ok {
		s.counters.Increment(observability.CounterCacheHits)
	} else {
		s.counters.Increment(observability.CounterCacheMisses)

		value, found, err := s.backend.GetItem(ctx, key)
		if err != nil {
			s.log.Warn("read failed", "key", key, "error", err)
			return false
		}
		if !found {
			return false
		}
		raw = json.RawMessage(value)
		s.cache[key] = raw
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("decode failed", "key", key, "error", err)
		delete(s.cache, key)
		return false
	}
	return true
}

// Set serializes value as JSON and writes it through to the backend.
// The cache is updated only after the backend write succeeds.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.SetItem(ctx, key, raw); err != nil {
		return err
	}
	s.cache[key] = raw
	return nil
}

// Remove deletes key from the backend and evicts it from the cache.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.RemoveItem(ctx, key); err != nil {
		return err
	}
	delete(s.cache, key)
	return nil
}

// Clear deletes every key from the backend and empties the cache.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Clear(ctx); err != nil {
		return err
	}
	s.cache = make(map[string]json.RawMessage)
	return nil
}

// Keys lists every key in the backend. Failures are logged and an empty
// list returned.
func (s *Store) Keys(ctx context.Context) []string {
	keys, err := s.backend.GetAllKeys(ctx)
	if err != nil {
		s.log.Warn("list keys failed", "error", err)
		return nil
	}
	return keys
}

// MultiGet returns one KeyValue per requested key, in request order.
// Absent or unreadable keys carry a nil Value; read failures are logged.
func (s *Store) MultiGet(ctx context.Context, keys []string) []KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]KeyValue, 0, len(keys))
	for _, key := range keys {
		if raw, ok := s.cache[key]; ok {
			s.counters.Increment(observability.CounterCacheHits)
			out = append(out, KeyValue{Key: key, Value: append(json.RawMessage(nil), raw...)})
			continue
		}
		s.counters.Increment(observability.CounterCacheMisses)

		value, found, err := s.backend.GetItem(ctx, key)
		if err != nil {
			s.log.Warn("read failed", "key", key, "error", err)
			out = append(out, KeyValue{Key: key})
			continue
		}
		if !found {
			out = append(out, KeyValue{Key: key})
			continue
		}
		raw := json.RawMessage(value)
		s.cache[key] = raw
		out = append(out, KeyValue{Key: key, Value: append(json.RawMessage(nil), raw...)})
	}
	return out
}

// MultiSet writes each pair through to the backend in order, updating
// the cache per successful write. The first failure stops the batch and
// propagates; earlier writes stay committed.
func (s *Store) MultiSet(ctx context.Context, pairs []KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pairs {
		if err := s.backend.SetItem(ctx, p.Key, p.Value); err != nil {
			return err
		}
		s.cache[p.Key] = append(json.RawMessage(nil), p.Value...)
	}
	return nil
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
