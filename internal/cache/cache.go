// SPDX-License-Identifier: MIT

// Package cache provides a typed in-memory cache with TTL support.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache provides thread-safe caching with expiration support.
type Cache[V any] interface {
	// Get retrieves a value from the cache. The zero value and false are
	// returned when the key is absent or expired.
	Get(key string) (V, bool)
	// Set stores a value in the cache with the specified TTL. A non-positive
	// TTL stores nothing.
	Set(key string, value V, ttl time.Duration)
	// Delete removes a value from the cache.
	Delete(key string)
	// Clear removes all values from the cache.
	Clear()
	// Stats returns cache statistics.
	Stats() Stats
	// Stop releases the background cleanup goroutine. Safe to call twice.
	Stop()
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64 // Number of successful Get operations
	Misses      int64 // Number of failed Get operations (not found or expired)
	Sets        int64 // Number of Set operations
	Evictions   int64 // Entries dropped by expiry cleanup or the size bound
	CurrentSize int   // Current number of cached entries
}

type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e *entry[V]) isExpired(now time.Time) bool {
	return now.After(e.expiration)
}

// Options tunes a memory cache.
type Options struct {
	// CleanupInterval determines how often expired entries are removed.
	// Zero disables the janitor.
	CleanupInterval time.Duration
	// MaxEntries bounds the cache size. Zero means unbounded.
	MaxEntries int
}

type memoryCache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]*entry[V]
	maxEntries int

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	now      func() time.Time
}

// NewMemory creates an in-memory cache. When opts.CleanupInterval is positive
// a janitor goroutine runs until Stop is called.
func NewMemory[V any](opts Options) Cache[V] {
	c := &memoryCache[V]{
		entries:    make(map[string]*entry[V]),
		maxEntries: opts.MaxEntries,
		now:        time.Now,
	}

	if opts.CleanupInterval > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.janitor(opts.CleanupInterval)
	}

	return c
}

func (c *memoryCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.isExpired(c.now()) {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.hits.Add(1)
	return e.value, true
}

func (c *memoryCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = &entry[V]{
		value:      value,
		expiration: now.Add(ttl),
	}
	c.sets.Add(1)
}

// evictLocked drops expired entries, or failing that the entry closest to expiry.
func (c *memoryCache[V]) evictLocked(now time.Time) {
	if n := c.deleteExpiredLocked(now); n > 0 {
		return
	}
	var (
		victim string
		soon   time.Time
	)
	for key, e := range c.entries {
		if victim == "" || e.expiration.Before(soon) {
			victim, soon = key, e.expiration
		}
	}
	if victim != "" {
		delete(c.entries, victim)
		c.evictions.Add(1)
	}
}

func (c *memoryCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

func (c *memoryCache[V]) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

// deleteExpired removes all expired entries and returns how many were dropped.
func (c *memoryCache[V]) deleteExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteExpiredLocked(now)
}

func (c *memoryCache[V]) deleteExpiredLocked(now time.Time) int {
	count := 0
	for key, e := range c.entries {
		if e.isExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.evictions.Add(int64(count))
	return count
}

func (c *memoryCache[V]) Stop() {
	if c.stop == nil {
		return
	}
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
}

func (c *memoryCache[V]) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

type noOpCache[V any] struct{}

// NewNoOp creates a cache that doesn't cache anything.
func NewNoOp[V any]() Cache[V] {
	return noOpCache[V]{}
}

func (noOpCache[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

func (noOpCache[V]) Set(string, V, time.Duration) {}
func (noOpCache[V]) Delete(string)                {}
func (noOpCache[V]) Clear()                       {}
func (noOpCache[V]) Stats() Stats                 { return Stats{} }
func (noOpCache[V]) Stop()                        {}
