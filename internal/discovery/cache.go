// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package discovery

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached spec list stays fresh.
const DefaultTTL = 5 * time.Minute

// Entry is the materialized spec list of one cache key.
type Entry struct {
	Specs     []*APISpec
	Timestamp time.Time
}

// Cache stores spec lists by key. Implementations must be safe for
// concurrent use; returned slices are shared and must not be modified.
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, specs []*APISpec, ts time.Time)
	Clear()
}

// Key returns the cache key of a language and version directory.
func Key(lang, version string) string {
	return lang + ":" + version
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Entry)}
}

// Get returns the entry stored under key.
func (c *MemoryCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores specs under key, replacing any previous entry.
func (c *MemoryCache) Put(key string, specs []*APISpec, ts time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Specs: specs, Timestamp: ts}
}

// Clear drops every entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of stored keys.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
