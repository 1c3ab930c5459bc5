package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/journal"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

func TestOpenApp_Backends(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			a, err := openApp(writeConfig(t, backend))
			if err != nil {
				t.Fatal(err)
			}
			defer a.Close()

			if len(a.warnings) != 0 {
				t.Errorf("fresh storage should load cleanly, got %v", a.warnings)
			}
			if a.ledger.Len() != 0 {
				t.Errorf("fresh ledger has %d records", a.ledger.Len())
			}
			if a.settings.Get().IntervalMinutes != 60 {
				t.Errorf("settings should start at defaults, got %+v", a.settings.Get())
			}
			if backend == "sqlite" {
				if _, err := os.Stat(filepath.Join(a.cfg.Storage.Dir, sqliteFile)); err != nil {
					t.Errorf("sqlite database not created: %v", err)
				}
			}
		})
	}
}

func TestOpenApp_CorruptHistoryIsAWarning(t *testing.T) {
	cfgPath := writeConfig(t, "json")
	dataDir := filepath.Join(filepath.Dir(cfgPath), "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, history.BlobKey+".json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := openApp(cfgPath)
	if err != nil {
		t.Fatalf("corrupt history must not be fatal: %v", err)
	}
	defer a.Close()
	if len(a.warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", a.warnings)
	}
	if a.ledger.Len() != 0 {
		t.Error("corrupt history should load as empty")
	}
}

func TestResolveItem(t *testing.T) {
	a, err := openApp(writeConfig(t, "json"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	it, err := a.resolveItem("")
	if err != nil || it.ID != "classic" {
		t.Errorf("resolveItem(\"\") = %v, %v; want config default", it, err)
	}
	it, err = a.resolveItem("Slim")
	if err != nil || it.ID != "slim" {
		t.Errorf("resolveItem(Slim) = %v, %v", it, err)
	}
	if _, err := a.resolveItem("pipe"); err == nil {
		t.Error("unknown item should fail")
	}
}

func TestAdvisor_NilWhenUnconfigured(t *testing.T) {
	a, err := openApp(writeConfig(t, "json"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.advisor() != nil {
		t.Error("advisor() should be a nil interface without advisory.url")
	}
}

func TestEventSink(t *testing.T) {
	a, err := openApp(writeConfig(t, "json"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	a.warnings = append(a.warnings, os.ErrNotExist)

	var mu sync.Mutex
	var shown []event.Entry
	sink, err := a.startSink(func(e event.Entry) {
		mu.Lock()
		shown = append(shown, e)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	path := sink.journal.Path()
	event.Emit(sink.events, event.Entry{Kind: event.Info, Message: "hello"})
	if err := sink.close(); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(shown) != 2 {
		t.Fatalf("displayed %d entries, want 2 (warning + info)", len(shown))
	}
	if shown[0].Kind != event.Warning || shown[1].Message != "hello" {
		t.Errorf("displayed = %+v", shown)
	}

	entries, err := journal.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || !strings.Contains(entries[0].Message, "not exist") {
		t.Errorf("journal = %+v", entries)
	}
}

// allDay is a reminder config whose window covers any time of day.
func allDay(enabled bool) settings.Config {
	return settings.Config{
		ActiveStart:          settings.MustParseTimeOfDay("00:00"),
		ActiveEnd:            settings.MustParseTimeOfDay("23:59"),
		IntervalMinutes:      60,
		NotificationsEnabled: enabled,
	}
}

func TestWatcher_SeesOtherProcesses(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfgPath := writeConfig(t, backend)

			setup, err := openApp(cfgPath)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = setup.ledger.Append(setup.ledger.NewRecord(time.Now().Add(-2*time.Hour), "Classic", 1))
			if err := setup.settings.Update(allDay(false)); err != nil {
				t.Fatal(err)
			}
			if err := setup.Close(); err != nil {
				t.Fatal(err)
			}

			watcher, err := openApp(cfgPath)
			if err != nil {
				t.Fatal(err)
			}
			defer watcher.Close()
			sched := watcher.newScheduler(nil, nil)

			other, err := openApp(cfgPath)
			if err != nil {
				t.Fatal(err)
			}
			defer other.Close()

			// Opt-in enabled by "settings set" in another process.
			if err := other.settings.Update(allDay(true)); err != nil {
				t.Fatal(err)
			}
			if r, fired := sched.EvaluateNow(); !fired {
				t.Fatalf("no reminder after opt-in elsewhere: %+v", r)
			}

			// A session recorded by another process resets the clock.
			_, _ = other.ledger.Append(other.ledger.NewRecord(time.Now(), "Classic", 1))
			sched = watcher.newScheduler(nil, nil)
			if r, fired := sched.EvaluateNow(); fired {
				t.Errorf("fired with elapsed=%d although a session was just recorded", r.ElapsedMinutes)
			}
			if watcher.ledger.Len() != 2 {
				t.Errorf("watcher ledger has %d records, want 2", watcher.ledger.Len())
			}
		})
	}
}
