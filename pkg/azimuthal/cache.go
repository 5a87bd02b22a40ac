package azimuthal

import (
	"sync"

	"saxslinecut/internal/models"
)

// MatrixCache memoises the backend's filtered q-arrays for a single
// (calibration, azimuth range) key. A new entry replaces the old one whole.
type MatrixCache struct {
	mu    sync.RWMutex
	entry *models.CachedMatrixData
}

// NewMatrixCache creates an empty cache
func NewMatrixCache() *MatrixCache {
	return &MatrixCache{}
}

// Get returns the cached entry when its key matches
func (c *MatrixCache) Get(key string) (*models.CachedMatrixData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.entry.Key != key {
		return nil, false
	}
	return c.entry, true
}

// Put replaces the cached entry
func (c *MatrixCache) Put(entry *models.CachedMatrixData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = entry
}

// Invalidate drops the cached entry
func (c *MatrixCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// Key returns the key of the cached entry, or "" when empty
func (c *MatrixCache) Key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return ""
	}
	return c.entry.Key
}
