package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds sessions keyed by conversation id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a conversation id, creating it when absent.
// A blank id allocates a fresh conversation.
func (st *Store) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		s = newSession(id)
		st.sessions[id] = s
	}
	return s
}

// Find returns the session for a conversation id without creating one.
func (st *Store) Find(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Remove discards the session for a conversation id.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
