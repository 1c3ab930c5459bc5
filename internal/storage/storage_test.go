package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/storage"
)

// Compile-time checks: every backend implements Blobs.
var (
	_ storage.Blobs = (*storage.Dir)(nil)
	_ storage.Blobs = (*storage.SQLite)(nil)
	_ storage.Blobs = (*storage.Memory)(nil)
)

func backends(t *testing.T) map[string]storage.Blobs {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "data", "smokebreak.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return map[string]storage.Blobs{
		"dir":    storage.NewDir(filepath.Join(t.TempDir(), "state")),
		"sqlite": db,
		"memory": storage.NewMemory(),
	}
}

func TestBlobs(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := b.Get("history"); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
			}

			if err := b.Put("history", []byte(`[1]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := b.Put("history", []byte(`[2]`)); err != nil {
				t.Fatalf("second Put: %v", err)
			}
			if err := b.Put("settings", []byte(`{}`)); err != nil {
				t.Fatalf("Put settings: %v", err)
			}

			got, err := b.Get("history")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `[2]` {
				t.Errorf("Get(history) = %s, want [2]", got)
			}
			got, err = b.Get("settings")
			if err != nil {
				t.Fatalf("Get settings: %v", err)
			}
			if string(got) != `{}` {
				t.Errorf("Get(settings) = %s, want {}", got)
			}
		})
	}
}

func TestBlobs_InvalidKey(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := b.Put("../escape", []byte("x")); err == nil {
				t.Error("expected Put error for path-like key")
			}
			_, err := b.Get("../escape")
			if err == nil || errors.Is(err, storage.ErrNotFound) {
				t.Errorf("Get(path-like key) error = %v, want invalid key", err)
			}
		})
	}
}

func TestDir_LeavesNoTempFiles(t *testing.T) {
	root := filepath.Join(t.TempDir(), "state")
	d := storage.NewDir(root)
	for i := 0; i < 3; i++ {
		if err := d.Put("history", []byte("[]")); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "history.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("dir contents = %v, want [history.json]", names)
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smokebreak.db")
	db, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put("settings", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = storage.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	got, err := db.Get("settings")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get = %s", got)
	}
}

func TestMemory_PutErr(t *testing.T) {
	m := storage.NewMemory()
	m.PutErr = errors.New("disk full")
	if err := m.Put("history", nil); err == nil {
		t.Error("expected PutErr to be returned")
	}
}
