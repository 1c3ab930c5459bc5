package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

func TestNewTheme(t *testing.T) {
	if got := NewTheme("").Accent(); got != defaultAccentColor {
		t.Errorf("default accent = %q, want %q", got, defaultAccentColor)
	}
	if got := NewTheme("#112233").Accent(); got != "#112233" {
		t.Errorf("custom accent = %q", got)
	}
	th := NewTheme("")
	_ = th.HeaderStyle().Render("x")
	_ = th.BorderStyle().Render("x")
}

func TestRenderLogLine_AllKinds(t *testing.T) {
	th := NewTheme("")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    event.Entry
		contains []string
	}{
		{
			name:     "start",
			entry:    event.Entry{Kind: event.SessionStart, Timestamp: now, Message: "Session started: Classic Red"},
			contains: []string{"12:00:00", "🔥", "Classic Red"},
		},
		{
			name:     "complete",
			entry:    event.Entry{Kind: event.SessionComplete, Timestamp: now, Message: "Saved $1.50"},
			contains: []string{"✅", "Saved $1.50"},
		},
		{
			name:     "advice",
			entry:    event.Entry{Kind: event.Advice, Timestamp: now, Message: "Nice one."},
			contains: []string{"💬", "Nice one."},
		},
		{
			name:     "reminder appends elapsed",
			entry:    event.Entry{Kind: event.Reminder, Timestamp: now, Message: "Time for a break?", ElapsedMinutes: 75},
			contains: []string{"⏰", "75 min"},
		},
		{
			name:     "error",
			entry:    event.Entry{Kind: event.Error, Timestamp: now, Message: "disk full"},
			contains: []string{"❌", "disk full"},
		},
		{
			name:     "multi-line message collapsed",
			entry:    event.Entry{Kind: event.Info, Timestamp: now, Message: "one\ntwo\tthree"},
			contains: []string{"one two three"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.RenderLogLine(tt.entry, 120)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderLogLine() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestRenderLogLine_Truncates(t *testing.T) {
	th := NewTheme("")
	long := strings.Repeat("a", 200)
	got := th.RenderLogLine(event.Entry{Kind: event.Info, Message: long}, 60)
	if strings.Contains(got, long) {
		t.Error("long message should be truncated")
	}
	if !strings.Contains(got, "…") {
		t.Errorf("truncated message should end with an ellipsis: %q", got)
	}
}
