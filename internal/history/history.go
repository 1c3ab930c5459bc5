// Package history is the append-only ledger of completed sessions. The
// saved total is always derived from the records; no separate counter is
// kept that could drift from the sum.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Record is one completed session. Records are immutable once created.
type Record struct {
	ID          int64
	Timestamp   time.Time
	ItemLabel   string
	SavedAmount float64
}

// Repository loads and saves the full record sequence, newest first.
type Repository interface {
	LoadRecords() ([]Record, error)
	SaveRecords([]Record) error
}

// Ledger owns the ordered record sequence.
type Ledger struct {
	repo Repository

	mu      sync.Mutex
	records []Record // newest first, insertion order
	lastID  int64
	unsaved bool // the last save failed; memory is ahead of the repository

	// OnChange, if set, is called after Append, Clear and Load. It runs
	// outside the ledger lock so it may call back into the ledger.
	OnChange func()
}

// NewLedger returns an empty Ledger. Call Load to restore persisted records.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// NewRecord builds a Record stamped at now with an ID greater than every ID
// this ledger has seen.
func (l *Ledger) NewRecord(now time.Time, itemLabel string, saved float64) Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return Record{ID: id, Timestamp: now, ItemLabel: itemLabel, SavedAmount: saved}
}

// Append inserts rec at the front and persists the whole sequence. It
// returns the new total. A non-nil error reports a persistence failure;
// the in-memory ledger still holds rec.
func (l *Ledger) Append(rec Record) (float64, error) {
	l.mu.Lock()
	l.records = append([]Record{rec}, l.records...)
	if rec.ID > l.lastID {
		l.lastID = rec.ID
	}
	snapshot := l.snapshotLocked()
	total := sum(l.records)
	l.mu.Unlock()

	saveErr := l.save(snapshot)
	l.changed()
	return total, saveErr
}

// Total returns the sum of SavedAmount over all records.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sum(l.records)
}

// Records returns a copy of the records, newest first.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Latest returns the most recently inserted record.
func (l *Ledger) Latest() (Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[0], true
}

// Load restores records from the repository. A missing sequence yields an
// empty ledger and no error. A malformed one yields an empty ledger and a
// non-nil warning; Load never leaves the ledger unusable.
func (l *Ledger) Load() error {
	recs, err := l.repo.LoadRecords()
	var warn error
	switch {
	case errors.Is(err, ErrNotStored):
		recs = nil
	case err != nil:
		recs = nil
		warn = fmt.Errorf("history: starting empty: %w", err)
	}

	l.mu.Lock()
	l.adoptLocked(recs)
	l.mu.Unlock()
	l.changed()
	return warn
}

// Refresh picks up records another process has saved since the last Load.
// It reports whether the ledger changed. Unreadable data and a ledger
// whose own last save failed are left as they are. Refresh does not call
// OnChange.
func (l *Ledger) Refresh() bool {
	recs, err := l.repo.LoadRecords()
	if errors.Is(err, ErrNotStored) {
		recs, err = nil, nil
	}
	if err != nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsaved || sameRecords(l.records, recs) {
		return false
	}
	l.adoptLocked(recs)
	return true
}

// Clear empties the ledger and persists the empty sequence.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()

	saveErr := l.save([]Record{})
	l.changed()
	return saveErr
}

func (l *Ledger) save(recs []Record) error {
	err := l.repo.SaveRecords(recs)
	l.mu.Lock()
	l.unsaved = err != nil
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}

func (l *Ledger) adoptLocked(recs []Record) {
	l.records = recs
	l.unsaved = false
	for _, r := range recs {
		if r.ID > l.lastID {
			l.lastID = r.ID
		}
	}
}

func (l *Ledger) snapshotLocked() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) changed() {
	if l.OnChange != nil {
		l.OnChange()
	}
}

// sameRecords compares by persisted fields; timestamps round-trip at
// millisecond precision.
func sameRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].Timestamp.UnixMilli() != b[i].Timestamp.UnixMilli() ||
			a[i].ItemLabel != b[i].ItemLabel ||
			a[i].SavedAmount != b[i].SavedAmount {
			return false
		}
	}
	return true
}

func sum(recs []Record) float64 {
	var total float64
	for _, r := range recs {
		total += r.SavedAmount
	}
	return total
}
