package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(opts Options) *Cache {
	if opts.RetryMaxAttempts == 0 {
		opts.RetryMaxAttempts = 1
	}
	if opts.RetryInitialInterval == 0 {
		opts.RetryInitialInterval = time.Millisecond
	}
	return New(opts)
}

func countingFetch(calls *atomic.Int64, value any) FetchFunc {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestCache_FreshHitSkipsFetch(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	var calls atomic.Int64
	key := NewKey("posts", "list", map[string]any{"page": 1})

	first, err := c.Get(context.Background(), key, time.Minute, countingFetch(&calls, "page-one"))
	require.NoError(t, err)

	second, err := c.Get(context.Background(), key, time.Minute, countingFetch(&calls, "other"))
	require.NoError(t, err)

	assert.Equal(t, "page-one", first)
	assert.Equal(t, "page-one", second, "second read must return the cached value")
	assert.Equal(t, int64(1), calls.Load(), "no second round trip within the staleness window")
}

func TestCache_DistinctParamsDistinctEntries(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	ctx := context.Background()
	k1 := NewKey("posts", "list", map[string]any{"title": "foo", "page": 2})
	k2 := NewKey("posts", "list", map[string]any{"title": "foo", "page": 1})
	require.NotEqual(t, k1, k2)

	v1, err := c.Get(ctx, k1, time.Minute, func(ctx context.Context) (any, error) { return "p2", nil })
	require.NoError(t, err)
	v2, err := c.Get(ctx, k2, time.Minute, func(ctx context.Context) (any, error) { return "p1", nil })
	require.NoError(t, err)

	assert.Equal(t, "p2", v1)
	assert.Equal(t, "p1", v2)
	assert.Equal(t, 2, c.Len())
}

func TestCache_EqualParamsCollapse(t *testing.T) {
	// Key canonicalization: struct and map encodings of the same filter
	// must address the same entry.
	type filter struct {
		Title string `json:"title"`
		Page  int    `json:"page"`
	}

	k1 := NewKey("posts", "list", filter{Title: "foo", Page: 2})
	k2 := NewKey("posts", "list", map[string]any{"page": 2, "title": "foo"})
	assert.Equal(t, k1, k2)
}

func TestCache_ConcurrentReadsDeduplicated(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	key := NewKey("products", "list", nil)
	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), key, time.Minute, fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Give all goroutines time to pile onto the in-flight fetch
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "exactly one network request for concurrent equal keys")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	ctx := context.Background()
	var calls atomic.Int64
	k1 := NewKey("categories", "list", map[string]any{"page": 1})
	k2 := NewKey("categories", "list", map[string]any{"page": 2})
	detail := NewKey("categories", "detail", "42")

	_, err := c.Get(ctx, k1, time.Minute, countingFetch(&calls, "a"))
	require.NoError(t, err)
	_, err = c.Get(ctx, k2, time.Minute, countingFetch(&calls, "b"))
	require.NoError(t, err)
	_, err = c.Get(ctx, detail, time.Minute, countingFetch(&calls, "d"))
	require.NoError(t, err)
	require.Equal(t, int64(3), calls.Load())

	c.Invalidate(Prefix("categories", "list"))

	// Both list entries refetch; the detail entry is untouched
	_, err = c.Get(ctx, k1, time.Minute, countingFetch(&calls, "a2"))
	require.NoError(t, err)
	_, err = c.Get(ctx, k2, time.Minute, countingFetch(&calls, "b2"))
	require.NoError(t, err)
	v, err := c.Get(ctx, detail, time.Minute, countingFetch(&calls, "d2"))
	require.NoError(t, err)

	assert.Equal(t, int64(5), calls.Load())
	assert.Equal(t, "d", v)
}

func TestCache_InvalidatePrefixDoesNotCrossNamespaces(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	ctx := context.Background()
	var calls atomic.Int64
	postsKey := NewKey("posts", "list", nil)
	personnelKey := NewKey("personnel", "list", nil)

	_, _ = c.Get(ctx, postsKey, time.Minute, countingFetch(&calls, "posts"))
	_, _ = c.Get(ctx, personnelKey, time.Minute, countingFetch(&calls, "people"))

	c.Invalidate(Prefix("posts", "list"))

	v, err := c.Get(ctx, personnelKey, time.Minute, countingFetch(&calls, "people2"))
	require.NoError(t, err)
	assert.Equal(t, "people", v, "personnel entry must survive a posts invalidation")
}

func TestCache_PutWritesThrough(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	key := NewKey("products", "detail", "7")
	c.Put(key, "updated-product", time.Minute)

	var calls atomic.Int64
	v, err := c.Get(context.Background(), key, time.Minute, countingFetch(&calls, "from-network"))
	require.NoError(t, err)

	assert.Equal(t, "updated-product", v)
	assert.Equal(t, int64(0), calls.Load(), "write-through must satisfy the next detail read")
}

func TestCache_StaleServedThenRevalidated(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	key := NewKey("tickets", "list", nil)
	ctx := context.Background()

	_, err := c.Get(ctx, key, time.Nanosecond, func(ctx context.Context) (any, error) { return "old", nil })
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	refreshed := make(chan struct{})
	v, err := c.Get(ctx, key, time.Minute, func(ctx context.Context) (any, error) {
		defer close(refreshed)
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", v, "stale entry is served immediately")

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("background revalidation never ran")
	}

	// The refresh result lands for the next reader
	assert.Eventually(t, func() bool {
		v, err := c.Get(ctx, key, time.Minute, func(ctx context.Context) (any, error) { return "x", nil })
		return err == nil && v == "new"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCache_RetryStopsOnNonRetryable(t *testing.T) {
	authErr := errors.New("auth failed")
	c := newTestCache(Options{
		RetryMaxAttempts:     4,
		RetryInitialInterval: time.Millisecond,
		Retryable:            func(err error) bool { return !errors.Is(err, authErr) },
	})
	defer c.Close()

	var calls atomic.Int64
	_, err := c.Get(context.Background(), NewKey("posts", "list", nil), time.Minute,
		func(ctx context.Context) (any, error) {
			calls.Add(1)
			return nil, authErr
		})

	require.ErrorIs(t, err, authErr)
	assert.Equal(t, int64(1), calls.Load(), "authorization failures are never retried")
}

func TestCache_RetriesTransientFailures(t *testing.T) {
	c := newTestCache(Options{
		RetryMaxAttempts:     3,
		RetryInitialInterval: time.Millisecond,
		Retryable:            func(error) bool { return true },
	})
	defer c.Close()

	var calls atomic.Int64
	v, err := c.Get(context.Background(), NewKey("posts", "list", nil), time.Minute,
		func(ctx context.Context) (any, error) {
			if calls.Add(1) < 3 {
				return nil, errors.New("connection reset")
			}
			return "recovered", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int64(3), calls.Load())
}

func TestCache_OlderFetchCannotOverwriteNewer(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	key := NewKey("posts", "detail", "1")

	// Simulate the race directly against the generation bookkeeping:
	// an old in-flight fetch (gen 1) completes after a newer write (gen 2).
	c.mu.Lock()
	oldGen := c.nextGen[key] + 1
	c.nextGen[key] = oldGen
	c.mu.Unlock()

	c.Put(key, "newer", time.Minute) // takes gen 2 and applies it

	c.mu.Lock()
	c.storeLocked(key, oldGen, "older", time.Minute)
	c.mu.Unlock()

	v, err := c.Get(context.Background(), key, time.Minute, func(ctx context.Context) (any, error) {
		return nil, errors.New("should not fetch")
	})
	require.NoError(t, err)
	assert.Equal(t, "newer", v, "a late result from an older request must be discarded")
}

func TestCache_GCEvictsIdleEntries(t *testing.T) {
	metrics := &Counters{}
	c := New(Options{
		RetryMaxAttempts: 1,
		IdleTTL:          10 * time.Millisecond,
		GCInterval:       10 * time.Millisecond,
		Metrics:          metrics,
	})
	defer c.Close()

	_, err := c.Get(context.Background(), NewKey("media", "list", nil), time.Minute,
		func(ctx context.Context) (any, error) { return "m", nil })
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	assert.Eventually(t, func() bool { return c.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Positive(t, metrics.Snapshot().Evictions)
}

func TestCache_MetricsCounters(t *testing.T) {
	metrics := &Counters{}
	c := newTestCache(Options{Metrics: metrics})
	defer c.Close()

	ctx := context.Background()
	key := NewKey("posts", "list", nil)

	_, _ = c.Get(ctx, key, time.Minute, func(ctx context.Context) (any, error) { return "v", nil })
	_, _ = c.Get(ctx, key, time.Minute, func(ctx context.Context) (any, error) { return "v", nil })
	c.Invalidate(Prefix("posts", "list"))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Invalidations)
}

func TestLookup_TypedResults(t *testing.T) {
	c := newTestCache(Options{})
	defer c.Close()

	type post struct{ Title string }

	v, err := Lookup(context.Background(), c, NewKey("posts", "detail", "9"), time.Minute,
		func(ctx context.Context) (*post, error) { return &post{Title: "hello"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Title)
}

func TestKey_HasPrefix(t *testing.T) {
	list := NewKey("posts", "list", map[string]any{"page": 1})
	assert.True(t, list.HasPrefix(Prefix("posts", "list")))
	assert.False(t, list.HasPrefix(Prefix("posts", "detail")))
	assert.False(t, list.HasPrefix(Prefix("post", "list")))
}
