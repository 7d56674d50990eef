package led

import "sync"

// Store holds the canonical LightState.
//
// Snapshot and Replace copy the whole record under one mutex, so a reader
// never sees a mix of old and new fields. Only the render loop calls Replace.
type Store struct {
	mu    sync.Mutex
	state LightState
}

// NewStore creates a store holding initial.
func NewStore(initial LightState) *Store {
	return &Store{state: initial}
}

// Snapshot returns a copy of the canonical state.
func (s *Store) Snapshot() LightState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Replace overwrites the canonical state.
func (s *Store) Replace(next LightState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}
