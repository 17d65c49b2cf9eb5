package llm

import (
	"crypto/sha256"
	"fmt"
	"maps"
	"sync"
	"time"
)

// cacheEntry holds one extraction result.
type cacheEntry struct {
	expiry  time.Time
	objects []map[string]any
}

// extractionCache remembers extraction results per input so that re-running
// an import of the same text does not call the provider again. Expired
// entries are dropped on access.
type extractionCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.Mutex
}

// newExtractionCache creates a new cache with the specified TTL. A negative
// TTL disables caching.
func newExtractionCache(ttl time.Duration) *extractionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	return &extractionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// cacheKey identifies an extraction request.
func cacheKey(language, today, text string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + today + "\x00" + text))
	return fmt.Sprintf("%x", sum)
}

// get returns a copy of a cached result if it exists and hasn't expired.
func (c *extractionCache) get(key string) ([]map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return cloneObjects(entry.objects), true
}

// set stores a result.
func (c *extractionCache) set(key string, objects []map[string]any) {
	if c.ttl < 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		objects: cloneObjects(objects),
		expiry:  c.now().Add(c.ttl),
	}
}

// size returns the number of entries in the cache.
func (c *extractionCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneObjects(objects []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(objects))
	for _, obj := range objects {
		out = append(out, maps.Clone(obj))
	}
	return out
}
