// Package querycache holds per-key server state for EZRA API reads.
//
// Each key caches the last successful result together with the time it
// was fetched. Concurrent readers of a stale or missing key share one
// in-flight fetch. Invalidating a key bumps its generation, so a fetch
// that started before the invalidation still answers its own callers but
// is not written back to the cache.
package querycache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/ezraportal/internal/app/system/metrics"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Defaults used when Options leave a field zero.
const (
	DefaultRetries       = 2
	ResourceStaleTime    = 5 * time.Minute
	LeaseStatusStaleTime = 10 * time.Minute
)

// Options control one Query call.
type Options struct {
	// StaleTime is how long a cached result is served without refetching.
	// Zero means ResourceStaleTime; negative disables caching of reads.
	StaleTime time.Duration

	// Retries is the number of extra attempts after a failed fetch.
	// Zero means DefaultRetries; negative disables retrying.
	Retries int

	// ShouldRetry decides whether an error is worth another attempt.
	// Nil means never retry.
	ShouldRetry func(error) bool

	// Backoff returns the pause before extra attempt n (1-based).
	// Nil means exponential from 250ms, capped at 2s.
	Backoff func(n int) time.Duration

	// Timeout bounds the detached fetch. Zero means timeouts.Medium().
	Timeout time.Duration
}

func (o Options) staleTime() time.Duration {
	if o.StaleTime == 0 {
		return ResourceStaleTime
	}
	return o.StaleTime
}

func (o Options) retries() int {
	switch {
	case o.Retries < 0:
		return 0
	case o.Retries == 0:
		return DefaultRetries
	default:
		return o.Retries
	}
}

func (o Options) backoff(n int) time.Duration {
	if o.Backoff != nil {
		return o.Backoff(n)
	}
	d := 250 * time.Millisecond << (n - 1)
	if d > 2*time.Second || d <= 0 {
		d = 2 * time.Second
	}
	return d
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return timeouts.Medium()
}

type entry struct {
	data      any
	fetchedAt time.Time
}

// Cache is safe for concurrent use. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
	group   singleflight.Group
	now     func() time.Time
	log     *zap.Logger
}

// New returns an empty cache.
func New(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		now:     time.Now,
		log:     logger,
	}
}

// SetClock replaces the cache's time source. Intended for tests.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Query returns the cached value for key when it is younger than the stale
// time, otherwise fetches it. The fetch runs detached from ctx so one
// caller giving up does not fail the others sharing it; ctx only bounds
// how long this caller waits. Errors are returned but never cached.
func Query[T any](ctx context.Context, c *Cache, key string, opts Options, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.lookup(key, opts.staleTime()); ok {
		if typed, ok := v.(T); ok {
			metrics.ObserveCache("hit")
			return typed, nil
		}
	}
	metrics.ObserveCache("miss")

	gen := c.generation(key)
	flight := key + "#" + strconv.FormatUint(gen, 10)

	ch := c.group.DoChan(flight, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.timeout())
		defer cancel()

		v, err := attempt(fctx, opts, fetch)
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func attempt[T any](ctx context.Context, opts Options, fetch func(context.Context) (T, error)) (T, error) {
	v, err := fetch(ctx)
	for n := 1; err != nil && n <= opts.retries(); n++ {
		if opts.ShouldRetry == nil || !opts.ShouldRetry(err) {
			break
		}
		t := time.NewTimer(opts.backoff(n))
		select {
		case <-ctx.Done():
			t.Stop()
			return v, err
		case <-t.C:
		}
		v, err = fetch(ctx)
	}
	return v, err
}

func (c *Cache) lookup(key string, stale time.Duration) (any, bool) {
	if stale < 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= stale {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

func (c *Cache) store(key string, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[key] != gen {
		metrics.ObserveCache("discarded")
		c.log.Debug("discarding response fetched before invalidation", zap.String("key", key))
		return
	}
	c.entries[key] = entry{data: v, fetchedAt: c.now()}
}

// Invalidate drops the cached values for keys and bumps their
// generations. Fetches already in flight for those keys will not be
// written back.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.gens[k]++
	}
}

// ForgetUser invalidates every key belonging to subject.
func (c *Cache) ForgetUser(subject string) {
	if subject == "" {
		return
	}
	c.mu.Lock()
	var keys []string
	for k := range c.entries {
		if ownedBy(k, subject) {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()
	c.Invalidate(append(keys, UserKeys(subject)...)...)
}

// Len reports how many keys currently hold a cached value.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func ownedBy(key, subject string) bool {
	return strings.HasPrefix(key, subject+"-") || key == LeaseStatusKey(subject)
}
