package tui

import (
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
)

func TestVisibility(t *testing.T) {
	v := NewVisibility(0)
	if v.Hidden() {
		t.Error("new Visibility should start in the foreground")
	}
	v.SetHidden(true)
	if !v.Hidden() {
		t.Error("SetHidden(true) not observed")
	}
	v.SetHidden(false)
	if v.Hidden() {
		t.Error("SetHidden(false) not observed")
	}
}

func TestVisibility_IdleFallback(t *testing.T) {
	clock := time.Date(2026, 7, 14, 15, 0, 0, 0, time.UTC)
	newVis := func(idle time.Duration) *Visibility {
		v := &Visibility{idleAfter: idle, now: func() time.Time { return clock }}
		v.Touch()
		return v
	}

	t.Run("hidden after idle period without focus reports", func(t *testing.T) {
		v := newVis(10 * time.Minute)
		clock = clock.Add(9 * time.Minute)
		if v.Hidden() {
			t.Error("hidden before the idle period elapsed")
		}
		clock = clock.Add(time.Minute)
		if !v.Hidden() {
			t.Error("not hidden after the idle period")
		}
		v.Touch()
		if v.Hidden() {
			t.Error("input should bring the terminal back to the foreground")
		}
	})

	t.Run("focus reports override idleness", func(t *testing.T) {
		v := newVis(10 * time.Minute)
		v.SetHidden(false)
		clock = clock.Add(time.Hour)
		if v.Hidden() {
			t.Error("idle fallback used although the terminal reports focus")
		}
	})

	t.Run("zero disables the fallback", func(t *testing.T) {
		v := newVis(0)
		clock = clock.Add(24 * time.Hour)
		if v.Hidden() {
			t.Error("hidden with the idle fallback disabled")
		}
	})
}

func TestPhaseLabelAndSymbol(t *testing.T) {
	tests := []struct {
		phase  session.Phase
		label  string
		symbol string
	}{
		{session.Idle, "IDLE", "○"},
		{session.Active, "BURNING", "●"},
		{session.Completed, "DONE", "✓"},
		{session.Phase(99), "UNKNOWN", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := phaseLabel(tt.phase); got != tt.label {
				t.Errorf("phaseLabel(%v) = %q, want %q", tt.phase, got, tt.label)
			}
			if got := phaseSymbol(tt.phase); got != tt.symbol {
				t.Errorf("phaseSymbol(%v) = %q, want %q", tt.phase, got, tt.symbol)
			}
		})
	}
}
