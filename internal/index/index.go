// Package index implements the gesture index cache: a snapshot of the
// current bindings bucketed by finger count, refreshed on a coarse clock so
// hot reloads propagate without taking a lock on every event.
package index

import (
	"time"

	"github.com/bnema/gesturesd/internal/gesture"
)

// refreshInterval bounds reload latency to one second plus one gesture
// boundary.
const refreshInterval = time.Second

// Snapshot is an immutable mapping from finger count to the ordered list of
// bindings declared for that count. Because it is never mutated after
// construction, a borrowed reference is safe to read from any goroutine
// without additional locking.
type Snapshot struct {
	buckets map[int][]gesture.Binding
}

// Bindings returns the bindings declared for the given finger count, in
// declaration order, or nil if none match.
func (s *Snapshot) Bindings(fingers int) []gesture.Binding {
	if s == nil {
		return nil
	}
	return s.buckets[fingers]
}

func build(bindings []gesture.Binding) *Snapshot {
	buckets := make(map[int][]gesture.Binding)
	for _, b := range bindings {
		buckets[b.Fingers] = append(buckets[b.Fingers], b)
	}
	return &Snapshot{buckets: buckets}
}

// Source supplies the live binding list the index rebuilds from; it is
// satisfied by *config.Config accessors but kept as a function type here so
// the index has no import-time dependency on the config package.
type Source func() []gesture.Binding

// Cache holds the current snapshot and the refresh policy. It is owned by
// the dispatcher goroutine; RefreshIfStale is not safe to call concurrently with
// itself, matching the dispatcher's single-threaded event loop.
type Cache struct {
	source      Source
	snapshot    *Snapshot
	lastRefresh time.Time
}

// New builds a Cache with an initial snapshot taken immediately.
func New(source Source) *Cache {
	c := &Cache{source: source}
	c.snapshot = build(source())
	c.lastRefresh = time.Now()
	return c
}

// Current returns the live snapshot without refreshing it.
func (c *Cache) Current() *Snapshot {
	return c.snapshot
}

// RefreshIfStale rebuilds the snapshot from Source if at least
// refreshInterval has elapsed since the last refresh, and returns the
// (possibly unchanged) current snapshot. Call this on every Begin event.
func (c *Cache) RefreshIfStale() *Snapshot {
	if time.Since(c.lastRefresh) >= refreshInterval {
		c.snapshot = build(c.source())
		c.lastRefresh = time.Now()
	}
	return c.snapshot
}
