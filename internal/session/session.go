// Package session provides the conversation-scoped carrier for studio
// operations: a dialogue state name plus a key/value context map, held in
// memory per conversation.
package session

import (
	"strings"
	"sync"
)

// Session is one conversation's dialogue state and context map. All methods
// are safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	id     string
	state  string
	values map[string]any
}

func newSession(id string) *Session {
	return &Session{
		id:     id,
		values: make(map[string]any),
	}
}

// ID returns the conversation identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current dialogue state name.
func (s *Session) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState replaces the dialogue state name.
func (s *Session) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Value returns the context value for a key.
func (s *Session) Value(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// StringValue returns the context value for a key when it is a non-blank
// string, otherwise the fallback.
func (s *Session) StringValue(key, fallback string) string {
	v, ok := s.Value(key)
	if !ok {
		return fallback
	}
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return fallback
	}
	return str
}

// Put stores a context value under a key.
func (s *Session) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a context key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Snapshot returns a shallow copy of the context map alongside the state.
func (s *Session) Snapshot() (string, map[string]any) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return s.state, values
}
