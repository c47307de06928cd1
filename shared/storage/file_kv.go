package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// FileKV stores each key as a file in a directory. A lock file makes the
// owning process the only writer.
type FileKV struct {
	dir  string
	lock *flock.Flock
}

// NewFileKV opens (creating if needed) the directory and takes its lock.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("create data directory: %w", err)}
	}

	lock := flock.New(filepath.Join(dir, ".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, &StorageError{Op: "lock", Err: err}
	}
	if !ok {
		return nil, &StorageError{Op: "lock", Key: dir, Err: ErrLocked}
	}

	return &FileKV{dir: dir, lock: lock}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, filepath.Base(strings.ReplaceAll(key, "/", "_"))+".json")
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return string(data), true, nil
}

// Set writes the value to a temp file and renames it over the target, so a
// reader never sees a partial blob.
func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".tubeshelf-*.tmp")
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Key: key, Err: fmt.Errorf("sync: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Key: key, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "write", Key: key, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}

// Close releases the directory lock.
func (f *FileKV) Close() error {
	if f.lock == nil {
		return nil
	}
	return f.lock.Unlock()
}
