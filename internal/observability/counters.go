package observability

import "sync"

// Common counter names used by the stores.
const (
	CounterPersists        = "persists"
	CounterPersistFailures = "persist_failures"
	CounterNotifications   = "notifications"
	CounterCacheHits       = "cache_hits"
	CounterCacheMisses     = "cache_misses"
)

// Counters collects named operation totals. Thread-safe.
type Counters struct {
	mu       sync.RWMutex
	counters map[string]int64
}

// NewCounters creates an empty counter set.
func NewCounters() *Counters {
	return &Counters{counters: make(map[string]int64)}
}

// Increment increments a named counter.
func (c *Counters) Increment(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

// IncrementBy increments a named counter by n.
func (c *Counters) IncrementBy(name string, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name] += n
}

// Counter returns the current value of a counter.
func (c *Counters) Counter(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// Snapshot returns a copy of current counters.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		snap[k] = v
	}
	return snap
}

// Reset clears all counters.
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters = make(map[string]int64)
}
