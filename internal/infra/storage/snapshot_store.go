package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrStorageUnavailable means the storage location could not be prepared.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSnapshotNotFound is returned by SnapshotStore.Read when nothing has been persisted yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrCorruptSnapshot means a snapshot exists but cannot be decoded.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// SnapshotStore holds the single serialized snapshot of one record kind.
type SnapshotStore interface {
	Read() ([]byte, error)
	// Write replaces the stored snapshot as a whole.
	Write(data []byte) error
	Location() string
}

// FileSnapshotStore keeps a snapshot in <dir>/<kind>.yaml.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore creates dir when missing. The returned error wraps
// ErrStorageUnavailable when the directory cannot be created.
func NewFileSnapshotStore(dir, kind string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory %s: %v", ErrStorageUnavailable, dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: stat data directory %s: %v", ErrStorageUnavailable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrStorageUnavailable, dir)
	}
	return &FileSnapshotStore{path: filepath.Join(dir, kind+".yaml")}, nil
}

func (s *FileSnapshotStore) Location() string { return s.path }

func (s *FileSnapshotStore) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileSnapshotStore) Write(data []byte) error {
	if err := WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
