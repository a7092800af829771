package storage

import "errors"

// ErrNotFound is returned by a backend when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a single key-value replica of the quota record. Values are
// opaque text; encoding is the caller's concern.
type Backend interface {
	Name() string
	Read(key string) (string, error)
	Write(key, value string) error
	Delete(key string) error
}
