package util

import "sync"

type (

	// Cache is a simple seen-set used to drop repeated keys from a batch
	Cache struct {
		lock  *sync.Mutex
		cache map[string]bool
	}
)

// NewCache creates a new seen-set
func NewCache() Cache {
	c := make(map[string]bool)
	return Cache{
		lock:  new(sync.Mutex),
		cache: c,
	}
}

// Lookup a value in the cache, return true if present or false if not found.
// Once a lookup has been performed the value is cached so that the next lookup
// will cause the cache to return true.
func (c Cache) Lookup(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.cache[key]
	if !ok {
		c.cache[key] = true
	}
	return ok
}
