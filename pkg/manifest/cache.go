package manifest

import "sync"

// Cache remembers the manifest found for a directory. An empty value records
// that no manifest exists at or above the directory.
type Cache struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]string),
	}
}

func (c *Cache) Get(dir string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[dir]
	return val, ok
}

func (c *Cache) Set(dir, manifestPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[dir] = manifestPath
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]string)
}

func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
