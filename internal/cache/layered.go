package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LayeredCache puts a memory layer in front of the disk cache: reads promote
// disk hits into memory, writes go to both.
type LayeredCache struct {
	memory *gocache.Cache
	disk   *DiskCache
}

// NewLayeredCache creates a layered cache over the given disk directory.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: gocache.New(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a value, checking memory first and then disk.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val.([]byte), true
	}

	if val, found := c.disk.Get(key); found {
		c.memory.Set(key, val, gocache.DefaultExpiration)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	c.memory.Set(key, value, ttl)
	return c.disk.Set(key, value, ttl)
}

// Delete removes a value from both layers.
func (c *LayeredCache) Delete(key string) error {
	c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

// Clear removes all values from both layers.
func (c *LayeredCache) Clear() error {
	c.memory.Flush()
	return c.disk.Clear()
}
