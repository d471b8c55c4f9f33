// Package storage persists the mirror history between runs.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the history file does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrStorageCorrupt indicates the history file could not be parsed.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring the history file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Path, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("load", "persist", "lock").
	Op string
	// Path is the file the operation was acting on.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }
