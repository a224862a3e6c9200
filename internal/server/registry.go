package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

type registryEntry struct {
	session  *models.Session
	lastUsed time.Time
}

// registry maps opaque handles stored in the session cookie to Tableau sessions.
// Tokens never leave the process.
type registry struct {
	mu      sync.Mutex
	entries map[string]registryEntry
	ttl     time.Duration
	now     func() time.Time
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		entries: make(map[string]registryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// put stores a session and returns its new handle. Expired entries are pruned.
func (r *registry) put(session *models.Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.entries {
		if now.Sub(e.lastUsed) > r.ttl {
			delete(r.entries, id)
		}
	}

	id := uuid.NewString()
	r.entries[id] = registryEntry{session: session, lastUsed: now}
	return id
}

// get returns the session for a handle and refreshes its idle timer.
func (r *registry) get(id string) (*models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.lastUsed) > r.ttl {
		delete(r.entries, id)
		return nil, false
	}
	e.lastUsed = now
	r.entries[id] = e
	return e.session, true
}

// remove forgets a handle and returns the session it held, if any.
func (r *registry) remove(id string) (*models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	delete(r.entries, id)
	return e.session, ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
