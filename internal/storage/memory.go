package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps committed entries in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]Entry
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]Entry)}
}

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context, namespace, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[namespace][key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s/%s", ErrNotFound, namespace, key)
	}
	return e, nil
}

// Store implements Backend. Entries are validated before any is written.
func (m *MemoryBackend) Store(_ context.Context, namespace string, entries []Entry) error {
	for _, e := range entries {
		if err := e.check(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string]Entry)
		m.data[namespace] = ns
	}
	for _, e := range entries {
		ns[e.Key] = e
	}
	return nil
}
