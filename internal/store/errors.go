package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for name-keyed operations. Callers match with errors.Is.
var (
	// ErrDuplicateName is returned by Save when isNew is set and the name
	// is already taken.
	ErrDuplicateName = errors.New("a recipe with this name already exists")

	// ErrNotFound is returned by Delete for an absent name.
	ErrNotFound = errors.New("recipe not found")
)

// StorageError reports a backing file that exists but cannot be read or
// parsed. It is surfaced to the caller rather than silently replaced with an
// empty collection, so a corrupt file is never clobbered by the next save.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("recipe file %s is unreadable: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
