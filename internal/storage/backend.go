package storage

import (
	"context"
	"fmt"
)

// MaxKeyLength bounds key and namespace names.
const MaxKeyLength = 15

// Width is the declared integer width of a stored value.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
)

// max returns the largest value representable at this width.
func (w Width) max() uint32 {
	if w == Width8 {
		return 0xFF
	}
	return 0xFFFF
}

// Entry is one typed value.
type Entry struct {
	Key   string
	Width Width
	Value uint32
}

// check verifies Value fits Width.
func (e Entry) check() error {
	switch e.Width {
	case Width8, Width16:
	default:
		return fmt.Errorf("%w: %s has unknown width %d", ErrTypeMismatch, e.Key, e.Width)
	}
	if e.Value > e.Width.max() {
		return fmt.Errorf("%w: %s=%d exceeds u%d", ErrValueRange, e.Key, e.Value, e.Width)
	}
	return nil
}

// Backend is the durable medium behind a Handle.
//
// Load returns ErrNotFound for keys that were never stored. Store must
// write all entries atomically with respect to a crash.
type Backend interface {
	Load(ctx context.Context, namespace, key string) (Entry, error)
	Store(ctx context.Context, namespace string, entries []Entry) error
}

func validName(name string) bool {
	return name != "" && len(name) <= MaxKeyLength
}
