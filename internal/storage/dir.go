package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir stores each key as <dir>/<key>.json.
type Dir struct {
	path string
}

// NewDir returns a Dir rooted at path. The directory is created lazily on
// the first Put.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the root directory.
func (d *Dir) Path() string { return d.path }

// Get reads the blob for key. Returns ErrNotFound if the file does not exist.
func (d *Dir) Get(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.file(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Put writes the blob for key using a write-then-rename pattern so a crash
// mid-write never leaves a truncated file behind.
func (d *Dir) Put(key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.path, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp %s: %w", key, err)
	}
	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: write %s: %w", key, writeErr)
	}
	if syncErr := tmp.Sync(); syncErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: sync %s: %w", key, syncErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: close %s: %w", key, closeErr)
	}
	if renameErr := os.Rename(tmp.Name(), d.file(key)); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: finalize %s: %w", key, renameErr)
	}
	return nil
}

func (d *Dir) file(key string) string {
	return filepath.Join(d.path, key+".json")
}
