package resolver

// RecursionKey identifies a referenceable subtree: a resource plus the JSON
// pointer of the value inside it.
type RecursionKey struct {
	Resource string
	Fragment string
}

// String renders the key as a URL with fragment.
func (k RecursionKey) String() string {
	return k.Resource + "#" + k.Fragment
}

// Tracker counts how often each RecursionKey is active on the current
// resolution path. Enter and Leave must be paired in LIFO order.
type Tracker struct {
	counts map[RecursionKey]int
	stack  []RecursionKey
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[RecursionKey]int)}
}

// Enter pushes key and returns how many times it was active before.
func (t *Tracker) Enter(key RecursionKey) int {
	before := t.counts[key]
	t.counts[key] = before + 1
	t.stack = append(t.stack, key)
	return before
}

// Leave pops the most recent entry of key.
func (t *Tracker) Leave(key RecursionKey) {
	n := t.counts[key]
	if n == 0 {
		return
	}
	if n == 1 {
		delete(t.counts, key)
	} else {
		t.counts[key] = n - 1
	}
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i] == key {
			t.stack = append(t.stack[:i], t.stack[i+1:]...)
			break
		}
	}
}

// Count returns how many times key is currently active.
func (t *Tracker) Count(key RecursionKey) int {
	return t.counts[key]
}

// Depth returns the number of active entries.
func (t *Tracker) Depth() int {
	return len(t.stack)
}

// Stack returns a copy of the active keys, outermost first.
func (t *Tracker) Stack() []RecursionKey {
	out := make([]RecursionKey, len(t.stack))
	copy(out, t.stack)
	return out
}
