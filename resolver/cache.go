package resolver

import "sync"

// EntryState describes what a Cache holds for a resource.
type EntryState int

const (
	// EntryFetched holds the document as parsed, with its references intact.
	EntryFetched EntryState = iota
	// EntryInProgress holds a resolver that is currently resolving the resource.
	EntryInProgress
	// EntryResolved holds the output of a finished resolver.
	EntryResolved
)

func (s EntryState) String() string {
	switch s {
	case EntryFetched:
		return "fetched"
	case EntryInProgress:
		return "in-progress"
	case EntryResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

type entry struct {
	state  EntryState
	doc    any
	active *Resolver
}

// Cache maps resource identities to documents for the duration of one or
// more Resolve calls. Sharing a Cache between resolvers avoids fetching the
// same resource twice, and lets a resolver that reaches a resource another
// resolver is still working on use that resolver's current document instead
// of starting over.
//
// Documents handed out by the cache are shared and never mutated by the
// resolver, which copies every value it substitutes.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// State reports the state of resource's entry.
func (c *Cache) State(resource string) (EntryState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[resource]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// Document returns the document known for resource. For an in-progress
// entry this is the active resolver's document as it currently stands.
func (c *Cache) Document(resource string) (any, bool) {
	c.mu.Lock()
	e, ok := c.entries[resource]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	if e.state == EntryInProgress {
		return e.active.Document(), true
	}
	return e.doc, true
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) storeFetched(resource string, doc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[resource]; ok {
		return
	}
	c.entries[resource] = &entry{state: EntryFetched, doc: doc}
}

// begin registers r as the active resolver for resource, returning the
// entry it replaced so a failed resolution can restore it.
func (c *Cache) begin(resource string, r *Resolver) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.entries[resource]
	c.entries[resource] = &entry{state: EntryInProgress, active: r}
	return prev
}

func (c *Cache) finish(resource string, doc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[resource] = &entry{state: EntryResolved, doc: doc}
}

func (c *Cache) abort(resource string, prev *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev == nil {
		delete(c.entries, resource)
		return
	}
	c.entries[resource] = prev
}
