// Package storage persists the application state as one serialized blob in a
// key-value backend.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// StateKey is the fixed key the state blob is stored under.
const StateKey = "tubeshelf.state"

// KV is a key-value store holding string blobs.
type KV interface {
	// Get returns the value for key; ok is false when no value is stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any prior value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the KV backend named by backend, rooted at path.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(path)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(path, "tubeshelf.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
