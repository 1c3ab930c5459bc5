// Package journal persists the event stream of one smokebreak invocation to
// an append-only JSONL file and reads past journals back. One Journal is
// created per process in cmd/smokebreak/wiring.go.
package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// line is the JSON form of one event.Entry.
type line struct {
	Kind           string    `json:"kind"`
	Timestamp      time.Time `json:"ts"`
	Message        string    `json:"msg,omitempty"`
	Item           string    `json:"item,omitempty"`
	Progress       float64   `json:"progress,omitempty"`
	Saved          float64   `json:"saved,omitempty"`
	Total          float64   `json:"total,omitempty"`
	ElapsedMinutes int       `json:"elapsed_minutes,omitempty"`
	Icon           string    `json:"icon,omitempty"`
}

var kindsByName = func() map[string]event.Kind {
	m := make(map[string]event.Kind)
	for k := event.Info; k <= event.Error; k++ {
		m[k.String()] = k
	}
	return m
}()

// Journal is an append-only JSONL file. The file is synced after every
// Append so a killed process keeps everything it reported.
//
// File name: "<unix-timestamp>-<pid>.jsonl", so names sort chronologically.
type Journal struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// Open creates a new journal file in dir, creating dir if needed.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("journal: mkdir %q: %w", dir, err)
	}
	name := fmt.Sprintf("%d-%d.jsonl", time.Now().Unix(), os.Getpid())
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	return &Journal{file: f, path: path}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Append writes entry as one JSON line and syncs. Safe for concurrent use.
func (j *Journal) Append(entry event.Entry) error {
	data, err := json.Marshal(line{
		Kind:           entry.Kind.String(),
		Timestamp:      entry.Timestamp,
		Message:        entry.Message,
		Item:           entry.Item,
		Progress:       entry.Progress,
		Saved:          entry.Saved,
		Total:          entry.Total,
		ElapsedMinutes: entry.ElapsedMinutes,
		Icon:           entry.Icon,
	})
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: sync: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Read returns every entry of the journal at path. Malformed lines are
// logged and skipped.
func Read(path string) ([]event.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("journal: read %q: %w", path, err)
	}
	var entries []event.Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		raw := sc.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			log.Printf("journal: skipping malformed line %d of %s: %v", n, filepath.Base(path), err)
			continue
		}
		kind, ok := kindsByName[l.Kind]
		if !ok {
			kind = event.Info
		}
		entries = append(entries, event.Entry{
			Kind:           kind,
			Timestamp:      l.Timestamp,
			Message:        l.Message,
			Item:           l.Item,
			Progress:       l.Progress,
			Saved:          l.Saved,
			Total:          l.Total,
			ElapsedMinutes: l.ElapsedMinutes,
			Icon:           l.Icon,
		})
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("journal: scan %q: %w", path, err)
	}
	return entries, nil
}

// List returns the journal files in dir, oldest first. A missing dir
// yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: read dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files) // timestamp-prefixed names sort chronologically
	return files, nil
}

// EnforceRetention removes the oldest journal files in dir, keeping at most
// maxKeep. maxKeep <= 0 keeps everything.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := List(dir)
	if err != nil {
		return err
	}
	for i := 0; i < len(files)-maxKeep; i++ {
		if err := os.Remove(files[i]); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("journal: remove %q: %w", files[i], err)
		}
	}
	return nil
}
