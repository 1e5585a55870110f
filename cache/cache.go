// Package cache provides the in-memory response cache for upstream API
// payloads, with time-based expiry and substring invalidation.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the validity window for cached responses.
const DefaultTTL = 5 * time.Minute

// entry is a cached payload with its storage timestamp.
type entry struct {
	payload  any
	storedAt time.Time
}

// Cache maps normalized request keys to cached payloads. A payload is served
// only while younger than the TTL; stale entries are evicted on access.
type Cache struct {
	ttl    time.Duration
	now    func() time.Time
	mu     sync.Mutex
	items  map[string]entry
	hits   int64
	misses int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the validity window for cached payloads.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache with the default TTL.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:   DefaultTTL,
		now:   time.Now,
		items: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the deterministic cache key for a request: the resource path
// plus the parameters serialized with keys sorted lexicographically, so
// equivalent parameter sets collapse to the same key regardless of insertion
// order. json.Marshal sorts map keys, which is what makes this stable.
func Key(path string, params map[string]string) string {
	if params == nil {
		params = map[string]string{}
	}
	data, _ := json.Marshal(params)
	return path + "?" + string(data)
}

// Get returns the cached payload for key if present and younger than the
// TTL. A stale entry is evicted and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(ent.storedAt) >= c.ttl {
		delete(c.items, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return ent.payload, true
}

// Set stores payload under key with the current timestamp, replacing any
// prior entry.
func (c *Cache) Set(key string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{payload: payload, storedAt: c.now()}
}

// Invalidate removes every entry whose key contains the given substring.
// It returns the number of entries removed.
func (c *Cache) Invalidate(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.Contains(key, substring) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.items)
	c.items = make(map[string]entry)
	return removed
}

// Len returns the number of entries currently stored, including entries that
// have gone stale but have not been swept yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats describes cache activity since creation.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries: len(c.items),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// sweep removes every entry older than the TTL and returns the count.
// Called by the janitor; Get already evicts lazily, the sweep only bounds
// memory held by keys that are never read again.
func (c *Cache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, ent := range c.items {
		if !ent.storedAt.After(cutoff) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}
