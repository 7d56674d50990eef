package storage

import "errors"

// Sentinel errors for storage operations. Check with errors.Is().
var (
	// ErrNotFound is returned when a key has never been committed.
	ErrNotFound = errors.New("storage: key not found")

	// ErrTypeMismatch is returned when a key is read with a different width than it was written with.
	ErrTypeMismatch = errors.New("storage: type mismatch")

	// ErrValueRange is returned when a stored value does not fit its declared width.
	ErrValueRange = errors.New("storage: value out of range")

	// ErrInvalidKey is returned for empty keys or keys longer than MaxKeyLength.
	ErrInvalidKey = errors.New("storage: invalid key")

	// ErrInvalidNamespace is returned for empty namespaces or names longer than MaxKeyLength.
	ErrInvalidNamespace = errors.New("storage: invalid namespace")
)
