// Package storage persists independently keyed blobs. The history ledger and
// the settings store each own one key; the backend decides where the bytes
// live (a directory of JSON files, a SQLite database, or memory in tests).
package storage

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when no blob has been stored under a key.
var ErrNotFound = errors.New("storage: not found")

// Blobs reads and writes whole blobs by key. Put replaces the previous
// value atomically: readers see either the old or the new blob, never a mix.
type Blobs interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
}

// keyRe restricts keys to names that are safe as file names.
var keyRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func checkKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
