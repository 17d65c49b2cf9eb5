package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractionCache(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := newExtractionCache(time.Minute)
	cache.now = func() time.Time { return now }

	key := cacheKey("en", "2025-01-01", "Hades")
	assert.NotEqual(t, key, cacheKey("fr", "2025-01-01", "Hades"))
	assert.NotEqual(t, key, cacheKey("en", "2025-01-02", "Hades"))

	_, found := cache.get(key)
	assert.False(t, found)

	cache.set(key, []map[string]any{{"title": "Hades"}})
	got, found := cache.get(key)
	assert.True(t, found)
	assert.Equal(t, []map[string]any{{"title": "Hades"}}, got)

	now = now.Add(2 * time.Minute)
	_, found = cache.get(key)
	assert.False(t, found)
	assert.Equal(t, 0, cache.size())
}

func TestExtractionCacheDisabled(t *testing.T) {
	cache := newExtractionCache(-1)
	cache.set("k", []map[string]any{{"title": "Hades"}})
	assert.Equal(t, 0, cache.size())
}
