// Package images discovers the image set belonging to a post by sequentially
// probing candidate paths, with per-path result caching and a consecutive-miss
// early stop.
package images

import "sync"

// ProbeCache memoizes per-path existence results so a path is never probed
// twice within a process lifetime. It is constructed once and passed by
// reference to whichever component needs it.
type ProbeCache struct {
	mu      sync.RWMutex
	results map[string]bool
}

// NewProbeCache returns an empty ProbeCache.
func NewProbeCache() *ProbeCache {
	return &ProbeCache{results: make(map[string]bool)}
}

// Get returns the cached result for path and whether one exists.
func (c *ProbeCache) Get(path string) (exists, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	exists, ok = c.results[path]
	return exists, ok
}

// Set records the probe result for path.
func (c *ProbeCache) Set(path string, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[path] = exists
}

// Clear drops all cached results.
func (c *ProbeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = make(map[string]bool)
}

// Len returns the number of cached paths.
func (c *ProbeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
