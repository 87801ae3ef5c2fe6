package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TaggedCache is an in-memory TTL cache whose entries register under tags,
// so a whole group can be invalidated at once. The resolver uses it to
// sweep every fuzzy-search entry touching a person's name tokens after a
// merge: over-invalidation is acceptable there, under-invalidation is not.
type TaggedCache struct {
	entries *gocache.Cache
	mu      sync.Mutex
	byTag   map[string]map[string]struct{} // tag -> set of keys
}

// NewTaggedCache creates a tagged cache with the given default TTL.
func NewTaggedCache(ttl time.Duration) *TaggedCache {
	return &TaggedCache{
		entries: gocache.New(ttl, 10*time.Minute),
		byTag:   make(map[string]map[string]struct{}),
	}
}

// Get retrieves a value.
func (c *TaggedCache) Get(key string) ([]byte, bool) {
	if val, found := c.entries.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value and registers it under each tag. A zero ttl uses the
// cache default.
func (c *TaggedCache) Set(key string, value []byte, ttl time.Duration, tags ...string) error {
	c.entries.Set(key, value, ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// InvalidateTag removes every entry stored under the tag.
func (c *TaggedCache) InvalidateTag(tag string) {
	c.mu.Lock()
	keys := c.byTag[tag]
	delete(c.byTag, tag)
	c.mu.Unlock()

	for key := range keys {
		c.entries.Delete(key)
	}
}

// Clear drops all entries and tag registrations.
func (c *TaggedCache) Clear() error {
	c.mu.Lock()
	c.byTag = make(map[string]map[string]struct{})
	c.mu.Unlock()
	c.entries.Flush()
	return nil
}
