package mirror

import (
	"sync"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

// Registry maps account ids to open sessions so stateless HTTP requests
// reuse one set of mirrors per signed-in account.
type Registry struct {
	store store.Store

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry over st.
func NewRegistry(st store.Store) *Registry {
	return &Registry{store: st, sessions: make(map[string]*Session)}
}

// Get returns the open session for the actor, opening one on first use.
func (r *Registry) Get(actor domain.Actor) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[actor.ID]; ok {
		return s, nil
	}
	s, err := Open(r.store, actor)
	if err != nil {
		return nil, err
	}
	r.sessions[actor.ID] = s
	return s, nil
}

// Drop closes and forgets the actor's session (logout). Safe to call when
// no session is open.
func (r *Registry) Drop(accountID string) {
	r.mu.Lock()
	s := r.sessions[accountID]
	delete(r.sessions, accountID)
	r.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// CloseAll tears down every open session (shutdown).
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
