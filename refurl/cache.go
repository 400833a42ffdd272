package refurl

import (
	"sync"
	"time"

	"github.com/erraggy/oasresolve/oaserrors"
)

// MaxCachedDocuments is the default number of parsed documents a
// DocumentCache holds.
const MaxCachedDocuments = 100

type cacheEntry struct {
	doc       any
	fetchTime time.Time
}

// DocumentCache stores parsed documents per resource identity. Cached
// documents are shared and must be treated as read-only.
//
// It is safe for concurrent use.
type DocumentCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewDocumentCache creates a cache. A zero ttl keeps entries forever and a
// negative ttl disables caching. A maxEntries of zero or less means
// MaxCachedDocuments.
func NewDocumentCache(ttl time.Duration, maxEntries int) *DocumentCache {
	if maxEntries <= 0 {
		maxEntries = MaxCachedDocuments
	}
	return &DocumentCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *DocumentCache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchTime) >= c.ttl
}

// Get returns the cached document for resource, if present and fresh.
func (c *DocumentCache) Get(resource string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[resource]
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		delete(c.entries, resource)
		return nil, false
	}
	return e.doc, true
}

// Put stores doc for resource. It fails with a ResourceLimitError when the
// cache is full of fresh entries.
func (c *DocumentCache) Put(resource string, doc any) error {
	if c == nil || c.ttl < 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[resource]; !ok && len(c.entries) >= c.maxEntries {
		for k, e := range c.entries {
			if c.expired(e) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.maxEntries {
			return &oaserrors.ResourceLimitError{
				ResourceType: "cached_documents",
				Limit:        int64(c.maxEntries),
				Actual:       int64(len(c.entries)),
				Message:      "too many external references",
			}
		}
	}
	c.entries[resource] = cacheEntry{doc: doc, fetchTime: c.now()}
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted.
func (c *DocumentCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *DocumentCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (c *DocumentCache) Sweep() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}
