package dataservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// FileCache memoizes decoded JSON files by path so repeated loads within a
// process never refetch. Only successful decodes are cached; a missing file
// is re-probed on the next load cycle.
type FileCache struct {
	mu    sync.RWMutex
	files map[string]any
}

// NewFileCache returns an empty FileCache.
func NewFileCache() *FileCache {
	return &FileCache{files: make(map[string]any)}
}

// LoadJSON returns the decoded contents of path, fetching through f on a
// cache miss. A missing file yields (nil, nil): absence is an expected
// partition state, not a failure.
func (c *FileCache) LoadJSON(ctx context.Context, f Fetcher, path string) (any, error) {
	c.mu.RLock()
	cached, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := f.Fetch(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	c.mu.Lock()
	c.files[path] = decoded
	c.mu.Unlock()
	return decoded, nil
}

// Clear drops every cached file.
func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]any)
}
