package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/browse"
)

var ErrNotFound = errors.New("session not found")

// State is what the registry keeps per session. Matches are recomputed from
// the catalog on every request, so only criteria and cursor are stored.
type State struct {
	Criteria browse.Criteria
	Cursor   int
}

type entry struct {
	state    State
	lastSeen time.Time
}

// Registry is an in-memory session map. Sessions idle for longer than ttl
// are dropped on access or by Sweep.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

func (r *Registry) Create(state State) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = &entry{state: state, lastSeen: r.now()}

	return id
}

func (r *Registry) Get(id string) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(id)
	if !ok {
		return State{}, ErrNotFound
	}

	e.lastSeen = r.now()

	return e.state, nil
}

// Put replaces the state of an existing session.
func (r *Registry) Put(id string, state State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.live(id)
	if !ok {
		return ErrNotFound
	}

	e.state = state
	e.lastSeen = r.now()

	return nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Sweep removes expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.entries {
		if r.expired(e) {
			delete(r.entries, id)
			n++
		}
	}

	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// must hold r.mu
func (r *Registry) live(id string) (*entry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}

	if r.expired(e) {
		delete(r.entries, id)
		return nil, false
	}

	return e, true
}

func (r *Registry) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}
