package tui

import (
	"testing"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

func TestKindIcon(t *testing.T) {
	tests := []struct {
		kind event.Kind
		want string
	}{
		{event.SessionStart, "🔥"},
		{event.SessionStop, "⏹"},
		{event.SessionComplete, "✅"},
		{event.SessionReset, "↺"},
		{event.Advice, "💬"},
		{event.Reminder, "⏰"},
		{event.Warning, "⚠"},
		{event.Error, "❌"},
		// default case
		{event.Info, "·"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := kindIcon(tt.kind); got != tt.want {
				t.Errorf("kindIcon(%v) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindStyle(t *testing.T) {
	// Every branch must return a usable style.
	kinds := []event.Kind{
		event.Info, event.SessionStart, event.SessionStop, event.SessionComplete,
		event.SessionReset, event.Advice, event.Reminder, event.Warning, event.Error,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			_ = kindStyle(k).Render("x")
		})
	}
}
