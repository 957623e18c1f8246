package loader

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheKey generates a unique cache key for a DocumentFile based on its ID and path.
func CacheKey(file DocumentFile) string {
	return file.ID + ":" + file.FilePath
}

// Cache memoizes loaded file contents. Concurrent loads of the same key
// share one call and failed loads are not stored.
type Cache struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{cache: make(map[string][]byte)}
}

// Load returns the cached content for key or calls fn to produce it.
func (c *Cache) Load(key string, fn func() ([]byte, error)) ([]byte, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.cacheMu.RUnlock()
		return cached, nil
	}
	c.cacheMu.RUnlock()

	result, err, _ := c.group.Do(key, func() (any, error) {
		c.cacheMu.RLock()
		if cached, ok := c.cache[key]; ok {
			c.cacheMu.RUnlock()
			return cached, nil
		}
		c.cacheMu.RUnlock()

		content, err := fn()
		if err != nil {
			return nil, err
		}

		c.cacheMu.Lock()
		c.cache[key] = content
		c.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
