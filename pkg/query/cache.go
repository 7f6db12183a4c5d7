// Package query caches content fetches by their query variables. Requests
// for the same key share one in-flight fetch, and completed results are
// reused until they expire or are invalidated.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies one query: the content kind plus its variables.
type Key struct {
	Kind    string
	ID      string
	Locale  string
	Preview bool
}

// String encodes the key with every text field quoted, so distinct keys
// never share a string.
func (k Key) String() string {
	return fmt.Sprintf("%q|%q|%q|%t", k.Kind, k.ID, k.Locale, k.Preview)
}

// State describes where a key is in its fetch lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetcher loads the value for a key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Config tunes a Cache. A zero TTL keeps results until invalidated and a
// zero FetchTimeout leaves fetches unbounded.
type Config struct {
	TTL          time.Duration
	FetchTimeout time.Duration
	Now          func() time.Time
}

type entry[T any] struct {
	value   T
	expires time.Time
}

// Cache is safe for concurrent use.
type Cache[T any] struct {
	cfg   Config
	group singleflight.Group

	mu         sync.Mutex
	entries    map[Key]entry[T]
	loading    map[Key]int
	failed     map[Key]struct{}
	generation uint64
}

// New returns an empty cache.
func New[T any](cfg Config) *Cache[T] {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache[T]{
		cfg:     cfg,
		entries: make(map[Key]entry[T]),
		loading: make(map[Key]int),
		failed:  make(map[Key]struct{}),
	}
}

// Get returns the cached value for key or runs fetch. Concurrent callers
// for the same key wait on the same fetch. The fetch is detached from the
// caller's cancellation so one caller going away does not fail the
// others; a caller whose ctx ends stops waiting with ctx.Err().
func (c *Cache[T]) Get(ctx context.Context, key Key, fetch Fetcher[T]) (T, error) {
	var zero T
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key.String(), func() (any, error) {
		return c.load(ctx, key, fetch)
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

func (c *Cache[T]) load(ctx context.Context, key Key, fetch Fetcher[T]) (any, error) {
	c.mu.Lock()
	gen := c.generation
	c.loading[key]++
	c.mu.Unlock()

	fetchCtx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if c.cfg.FetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(fetchCtx, c.cfg.FetchTimeout)
	} else {
		fetchCtx, cancel = context.WithCancel(fetchCtx)
	}
	defer cancel()

	v, err := fetch(fetchCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading[key]--
	if c.loading[key] <= 0 {
		delete(c.loading, key)
	}
	if err != nil {
		if gen == c.generation {
			c.failed[key] = struct{}{}
		}
		return nil, err
	}

	// Results of a fetch invalidated while in flight reach its waiters
	// but are not stored.
	if gen == c.generation {
		delete(c.failed, key)
		var expires time.Time
		if c.cfg.TTL > 0 {
			expires = c.cfg.Now().Add(c.cfg.TTL)
		}
		c.entries[key] = entry[T]{value: v, expires: expires}
	}
	return v, nil
}

func (c *Cache[T]) lookup(key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !e.expires.IsZero() && !c.cfg.Now().Before(e.expires) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// State reports the lifecycle state of key.
func (c *Cache[T]) State(key Key) State {
	if _, ok := c.lookup(key); ok {
		return StateReady
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.loading[key]; ok {
		return StateLoading
	}
	if _, ok := c.failed[key]; ok {
		return StateFailed
	}
	return StateIdle
}

// Invalidate drops the cached value for key. A fetch already in flight
// for key still completes for its waiters but is not stored.
func (c *Cache[T]) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.failed, key)
	c.generation++
	c.group.Forget(key.String())
}

// InvalidateAll drops every cached value.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		c.group.Forget(key.String())
	}
	for key := range c.loading {
		c.group.Forget(key.String())
	}
	c.entries = make(map[Key]entry[T])
	c.failed = make(map[Key]struct{})
	c.generation++
}

// Len returns the number of cached entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
