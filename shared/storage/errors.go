package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrLocked indicates another process holds the store.
	ErrLocked = errors.New("store is locked by another process")
	// ErrCorrupt indicates the stored blob could not be decoded.
	ErrCorrupt = errors.New("stored state is corrupt")
	// ErrUnsupportedVersion indicates a blob written by a newer schema.
	ErrUnsupportedVersion = errors.New("unsupported state version")
)

// StorageError wraps a backend failure with the operation and key involved.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
