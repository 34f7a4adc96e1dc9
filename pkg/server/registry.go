package server

import (
	"sync"

	"github.com/matzehuels/impactriver/pkg/errors"
	"github.com/matzehuels/impactriver/pkg/render/river"
)

// DefaultMaxSessions bounds the number of live sessions per server.
const DefaultMaxSessions = 1024

// Registry holds live render sessions by ID. When full, adding a session
// evicts the oldest one.
type Registry struct {
	mu       sync.RWMutex
	max      int
	sessions map[string]*river.Session
	order    []string // insertion order, oldest first
}

// NewRegistry creates a registry holding at most max sessions.
// A non-positive max uses DefaultMaxSessions.
func NewRegistry(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Registry{max: max, sessions: make(map[string]*river.Session)}
}

// Put stores s and returns the ID of an evicted session, if any.
func (r *Registry) Put(s *river.Session) (evicted string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		r.sessions[s.ID] = s
		return ""
	}
	if len(r.order) >= r.max {
		evicted = r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, evicted)
	}
	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)
	return evicted
}

// Get returns the session with id or a SESSION_NOT_FOUND error.
func (r *Registry) Get(id string) (*river.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return s, nil
}

// Delete removes the session with id. It reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
