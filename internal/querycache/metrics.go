package querycache

import "sync/atomic"

// Metrics receives cache lifecycle events. The cache calls these methods
// and moves on; implementations must be fast and non-blocking.
type Metrics interface {
	// Hit is called when a fresh entry is served.
	Hit()

	// Miss is called when no usable entry exists and a fetch is required.
	Miss()

	// Stale is called when a stale entry is served while a background
	// revalidation is triggered.
	Stale()

	// Invalidation is called once per entry marked stale by Invalidate.
	Invalidation()

	// Eviction is called when an idle entry is garbage collected.
	Eviction()
}

// NoopMetrics ignores all events so callers that do not care about
// metrics need no nil checks.
type NoopMetrics struct{}

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Stale()        {}
func (NoopMetrics) Invalidation() {}
func (NoopMetrics) Eviction()     {}

// Counters is a Metrics implementation backed by atomic counters,
// surfaced by the `darabctl cache stats` command.
type Counters struct {
	hits          atomic.Int64
	misses        atomic.Int64
	stale         atomic.Int64
	invalidations atomic.Int64
	evictions     atomic.Int64
}

func (c *Counters) Hit()          { c.hits.Add(1) }
func (c *Counters) Miss()         { c.misses.Add(1) }
func (c *Counters) Stale()        { c.stale.Add(1) }
func (c *Counters) Invalidation() { c.invalidations.Add(1) }
func (c *Counters) Eviction()     { c.evictions.Add(1) }

// Snapshot returns the current counter values
func (c *Counters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Stale:         c.stale.Load(),
		Invalidations: c.invalidations.Load(),
		Evictions:     c.evictions.Load(),
	}
}

// CounterSnapshot is a point-in-time view of cache activity
type CounterSnapshot struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Stale         int64 `json:"stale"`
	Invalidations int64 `json:"invalidations"`
	Evictions     int64 `json:"evictions"`
}
