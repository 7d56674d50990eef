package storage

import (
	"context"
	"fmt"
	"sync"
)

// Handle is an open namespace. Set calls are staged in memory and become
// durable on Commit. Reads see staged values first.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Handle struct {
	backend   Backend
	namespace string

	mu      sync.Mutex
	pending map[string]Entry
	order   []string
}

// Open returns a handle on namespace.
func Open(backend Backend, namespace string) (*Handle, error) {
	if !validName(namespace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	return &Handle{
		backend:   backend,
		namespace: namespace,
		pending:   make(map[string]Entry),
	}, nil
}

// Namespace returns the namespace this handle was opened on.
func (h *Handle) Namespace() string {
	return h.namespace
}

// GetU8 reads an 8-bit value.
func (h *Handle) GetU8(ctx context.Context, key string) (uint8, error) {
	e, err := h.get(ctx, key, Width8)
	if err != nil {
		return 0, err
	}
	return uint8(e.Value), nil
}

// GetU16 reads a 16-bit value.
func (h *Handle) GetU16(ctx context.Context, key string) (uint16, error) {
	e, err := h.get(ctx, key, Width16)
	if err != nil {
		return 0, err
	}
	return uint16(e.Value), nil
}

// SetU8 stages an 8-bit value.
func (h *Handle) SetU8(key string, v uint8) error {
	return h.set(Entry{Key: key, Width: Width8, Value: uint32(v)})
}

// SetU16 stages a 16-bit value.
func (h *Handle) SetU16(key string, v uint16) error {
	return h.set(Entry{Key: key, Width: Width16, Value: uint32(v)})
}

// Commit writes all staged values in one backend call. Staged values are
// discarded whether or not the write succeeds.
func (h *Handle) Commit(ctx context.Context) error {
	h.mu.Lock()
	entries := make([]Entry, 0, len(h.order))
	for _, k := range h.order {
		entries = append(entries, h.pending[k])
	}
	h.pending = make(map[string]Entry)
	h.order = nil
	h.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	if err := h.backend.Store(ctx, h.namespace, entries); err != nil {
		return fmt.Errorf("committing namespace %s: %w", h.namespace, err)
	}
	return nil
}

func (h *Handle) set(e Entry) error {
	if !validName(e.Key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, e.Key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, staged := h.pending[e.Key]; !staged {
		h.order = append(h.order, e.Key)
	}
	h.pending[e.Key] = e
	return nil
}

func (h *Handle) get(ctx context.Context, key string, want Width) (Entry, error) {
	if !validName(key) {
		return Entry{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	h.mu.Lock()
	e, staged := h.pending[key]
	h.mu.Unlock()

	if !staged {
		var err error
		e, err = h.backend.Load(ctx, h.namespace, key)
		if err != nil {
			return Entry{}, err
		}
	}

	if e.Width != want {
		return Entry{}, fmt.Errorf("%w: %s is u%d, read as u%d", ErrTypeMismatch, key, e.Width, want)
	}
	if err := e.check(); err != nil {
		return Entry{}, err
	}
	return e, nil
}
