package cart

import (
	"sync"
	"time"
)

// Registry maps session IDs to cart stores so each browser session keeps
// its own cart across requests. Entries are evicted after sitting idle
// for the configured TTL.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*registryEntry
	ttl   time.Duration
	now   func() time.Time
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// DefaultSessionTTL is how long an untouched cart survives.
const DefaultSessionTTL = 24 * time.Hour

// NewRegistry creates a registry with the given idle TTL. A non-positive
// TTL falls back to DefaultSessionTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		carts: make(map[string]*registryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cart for the session, creating it on first use. Every
// access refreshes the session's idle timer.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.carts[sessionID]
	if !ok {
		entry = &registryEntry{store: NewStore()}
		r.carts[sessionID] = entry
	}
	entry.lastSeen = r.now()
	return entry.store
}

// Drop removes the session's cart immediately.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

// Sweep evicts carts idle longer than the TTL and returns how many were
// removed. Callers run it on a timer.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, entry := range r.carts {
		if entry.lastSeen.Before(cutoff) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
