package storage

import (
	"errors"
	"fmt"
)

// Common errors returned by the document store.
var (
	// ErrNotFound indicates no document has the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput indicates a document or query failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence indicates durable state could not be read or written.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorrupt indicates persisted state is structurally invalid.
	// It is always reported inside a PersistenceError.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// PersistenceError describes a failed read or write of durable state.
type PersistenceError struct {
	Op   string // load, save, export
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s %s): %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes every PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// IsNotFound returns true if the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCorrupt returns true if the error indicates a structurally invalid snapshot.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}
