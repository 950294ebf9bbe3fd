package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps sessions in memory and is safe for concurrent use.
// Everything is lost on restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]State)}
}

// Create stores initial under a new id and returns the id.
func (s *Store) Create(initial State) string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = initial.Clone()
	return id
}

// Get returns a copy of the session state.
func (s *Store) Get(id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.sessions[id]
	if !ok {
		return State{}, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return st.Clone(), nil
}

// Update applies fn to the current state under the write lock. When fn
// fails the stored state is left as it was.
func (s *Store) Update(id string, fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return State{}, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	next, err := fn(st.Clone())
	if err != nil {
		return State{}, err
	}

	s.sessions[id] = next.Clone()
	return next.Clone(), nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
