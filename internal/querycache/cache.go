// Package querycache provides a staleness-aware request cache keyed by
// structured query keys.
//
// Reads are addressed by Key. A fresh entry is served directly; a stale
// entry is served immediately while a background revalidation runs; a miss
// fetches synchronously. Concurrent fetches for one key collapse into a
// single network request. Mutations invalidate whole key scopes, and
// updates may write their result straight into the detail entry.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a key from the backend
type FetchFunc func(ctx context.Context) (any, error)

// Options configures a Cache
type Options struct {
	// RetryMaxAttempts bounds fetch attempts, including the first.
	RetryMaxAttempts int

	// RetryInitialInterval seeds the exponential backoff between attempts.
	RetryInitialInterval time.Duration

	// Retryable decides whether a fetch error is worth retrying.
	// Authorization failures must return false here.
	Retryable func(error) bool

	// IdleTTL is how long an entry may go unread before garbage collection.
	IdleTTL time.Duration

	// GCInterval is how often the garbage collector runs.
	GCInterval time.Duration

	Metrics Metrics
	Logger  *slog.Logger
}

// entry is a cached value plus the bookkeeping for staleness and eviction
type entry struct {
	data        any
	fetchedAt   time.Time
	staleAfter  time.Duration
	lastAccess  time.Time
	invalidated bool
}

// Cache is the process-wide server-state cache. Writes go through Get,
// Put, and Invalidate only; there is no direct entry mutation.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	nextGen map[Key]uint64
	applied map[Key]uint64

	group   singleflight.Group
	metrics Metrics
	logger  *slog.Logger

	retryMaxAttempts     int
	retryInitialInterval time.Duration
	retryable            func(error) bool

	idleTTL    time.Duration
	gcInterval time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a cache and starts its garbage collector
func New(opts Options) *Cache {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	maxAttempts := opts.RetryMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	initialInterval := opts.RetryInitialInterval
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}

	c := &Cache{
		entries:              make(map[Key]*entry),
		nextGen:              make(map[Key]uint64),
		applied:              make(map[Key]uint64),
		metrics:              metrics,
		logger:               logger,
		retryMaxAttempts:     maxAttempts,
		retryInitialInterval: initialInterval,
		retryable:            opts.Retryable,
		idleTTL:              opts.IdleTTL,
		gcInterval:           opts.GCInterval,
		stop:                 make(chan struct{}),
	}

	if c.idleTTL > 0 && c.gcInterval > 0 {
		go c.gcLoop()
	}

	return c
}

// Close stops the garbage collector
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get returns the value for key, fetching it when missing or invalidated.
// A stale entry is returned immediately and refreshed in the background.
func (c *Cache) Get(ctx context.Context, key Key, staleAfter time.Duration, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.invalidated {
		now := time.Now()
		e.lastAccess = now
		data := e.data
		fresh := now.Sub(e.fetchedAt) <= e.staleAfter
		c.mu.Unlock()

		if fresh {
			c.metrics.Hit()
			return data, nil
		}

		c.metrics.Stale()
		go func() {
			// Detached from the caller's ctx: the caller already has its
			// answer, the refresh is for the next reader.
			if _, err := c.fetch(context.Background(), key, staleAfter, fetch); err != nil {
				c.logger.Debug("background revalidation failed", "key", key, "error", err)
			}
		}()
		return data, nil
	}
	c.mu.Unlock()

	c.metrics.Miss()
	return c.fetch(ctx, key, staleAfter, fetch)
}

// Put writes data directly into an entry, resetting its staleness clock.
// Used by update mutations to write through the fresh entity.
func (c *Cache) Put(key Key, data any, staleAfter time.Duration) {
	c.mu.Lock()
	gen := c.nextGen[key] + 1
	c.nextGen[key] = gen
	c.storeLocked(key, gen, data, staleAfter)
	c.mu.Unlock()
}

// Invalidate marks every entry under prefix as needing a fresh fetch on
// next read. Serving pre-mutation data after a successful write would be
// wrong, so invalidated entries do not get the serve-stale treatment.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if k.HasPrefix(prefix) && !e.invalidated {
			e.invalidated = true
			c.metrics.Invalidation()
		}
	}
}

// Remove drops a single entry. Idempotent.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.nextGen, key)
	delete(c.applied, key)
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.nextGen = make(map[Key]uint64)
	c.applied = make(map[Key]uint64)
}

// Len returns the number of live entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fetch performs a deduplicated, retried load and stores the result.
// Concurrent callers for the same key share one network request.
func (c *Cache) fetch(ctx context.Context, key Key, staleAfter time.Duration, fn FetchFunc) (any, error) {
	v, err, _ := c.group.Do(string(key), func() (any, error) {
		c.mu.Lock()
		gen := c.nextGen[key] + 1
		c.nextGen[key] = gen
		c.mu.Unlock()

		data, err := c.fetchWithRetry(ctx, fn)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.storeLocked(key, gen, data, staleAfter)
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// fetchWithRetry applies the bounded exponential-backoff retry policy
func (c *Cache) fetchWithRetry(ctx context.Context, fn FetchFunc) (any, error) {
	var result any

	op := func() error {
		v, err := fn(ctx)
		if err != nil {
			if c.retryable != nil && !c.retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = v
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retryInitialInterval

	var policy backoff.BackOff = backoff.WithMaxRetries(expo, uint64(c.retryMaxAttempts-1))
	policy = backoff.WithContext(policy, ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// storeLocked applies a fetch result unless a newer-generation result has
// already landed for this key. Caller holds mu.
func (c *Cache) storeLocked(key Key, gen uint64, data any, staleAfter time.Duration) {
	if gen <= c.applied[key] {
		return
	}
	c.applied[key] = gen

	now := time.Now()
	c.entries[key] = &entry{
		data:       data,
		fetchedAt:  now,
		staleAfter: staleAfter,
		lastAccess: now,
	}
}

// gcLoop evicts entries that have gone unread past the idle TTL
func (c *Cache) gcLoop() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictIdle()
		}
	}
}

func (c *Cache) evictIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.idleTTL)
	for k, e := range c.entries {
		if e.lastAccess.Before(cutoff) {
			delete(c.entries, k)
			delete(c.nextGen, k)
			delete(c.applied, k)
			c.metrics.Eviction()
		}
	}
}

// Lookup is the typed convenience wrapper around Get used by the resource
// services.
func Lookup[T any](ctx context.Context, c *Cache, key Key, staleAfter time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, staleAfter, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %s holds %T, not %T", key, v, zero)
	}
	return typed, nil
}
