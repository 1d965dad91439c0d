// Package cache provides an in-memory, TTL-bounded memoization layer keyed by content identity.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-rewrite/internal/types"
)

const (
	// DefaultTTL is how long a stored result stays fresh
	DefaultTTL = 10 * time.Minute
	// DefaultMaxEntries bounds memory; the entry closest to expiry is evicted first
	DefaultMaxEntries = 256
)

// Config holds cache bounds. Zero values select the defaults.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

// Key derives the cache key for a (document, job description) pair
func Key(documentID, jobDescription string) string {
	sum := sha256.Sum256([]byte(documentID + "|" + jobDescription))
	return hex.EncodeToString(sum[:])
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache stores at most one value per key until it expires.
// Concurrent computations for the same key converge on a single stored value.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	max     int
	now     func() time.Time
	group   singleflight.Group
}

// New creates a cache
func New[V any](cfg Config) *Cache[V] {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     cfg.TTL,
		max:     cfg.MaxEntries,
		now:     time.Now,
	}
}

// Get returns the live value for key
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value unless a live value already exists for key.
// It returns the value that is stored after the call.
func (c *Cache[V]) Put(key string, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[key]; ok && now.Before(e.expires) {
		return e.value
	}
	if len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
	return value
}

// Delete drops key
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len reports the number of stored entries, including expired ones not yet purged
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do returns the cached value for key or computes it with fn.
// Concurrent callers for the same key share one fn call, which runs with the leading caller's context.
// A waiter whose shared call was canceled by another caller's context retries under its own.
// Failed computations are not stored. hit reports whether the value came from the cache.
func (c *Cache[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (value V, hit bool, err error) {
	var zero V
	for {
		if v, ok := c.Get(key); ok {
			return v, true, nil
		}

		led := false
		ch := c.group.DoChan(key, func() (any, error) {
			led = true
			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			return c.Put(key, v), nil
		})

		select {
		case <-ctx.Done():
			return zero, false, ctx.Err()
		case res := <-ch:
			if res.Err == nil {
				return res.Val.(V), false, nil
			}
			if !led && isContextError(res.Err) && ctx.Err() == nil {
				continue
			}
			return zero, false, res.Err
		}
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ResultCache memoizes analysis responses by (document, job description)
type ResultCache = Cache[*types.AnalysisResponse]

// NewResultCache creates a ResultCache
func NewResultCache(cfg Config) *ResultCache {
	return New[*types.AnalysisResponse](cfg)
}

// evictLocked purges expired entries and, if still full, the entry closest to expiry
func (c *Cache[V]) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			continue
		}
		if !found || e.expires.Before(oldest) {
			oldestKey, oldest, found = k, e.expires, true
		}
	}
	if len(c.entries) >= c.max && found {
		delete(c.entries, oldestKey)
	}
}
