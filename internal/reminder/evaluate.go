// Package reminder decides when to nudge the user and owns the recurring
// evaluation timer that asks.
package reminder

import (
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

// DefaultIcon is the icon reference attached to reminders.
const DefaultIcon = "cigarette"

// Input is everything one evaluation looks at.
type Input struct {
	Now    time.Time
	Config settings.Config

	// LastEvent is the timestamp of the newest ledger record; zero when the
	// ledger is empty.
	LastEvent time.Time
	// Since is the baseline used instead of LastEvent for an empty ledger,
	// normally the instant the scheduler started.
	Since time.Time
	// LastFired is when the previous reminder fired; zero when never.
	LastFired time.Time

	// Hidden reports that the host app is not in the foreground.
	Hidden bool
}

// Reminder is a fired reminder.
type Reminder struct {
	At             time.Time
	ElapsedMinutes int // since the last recorded session, for display
	Icon           string
}

// Evaluate reports whether a reminder should fire for in. It is pure.
func Evaluate(in Input) (Reminder, bool) {
	cfg := in.Config
	if !cfg.NotificationsEnabled {
		return Reminder{}, false
	}
	if !InWindow(in.Now, cfg) {
		return Reminder{}, false
	}

	last := in.LastEvent
	if last.IsZero() {
		last = in.Since
	}
	if last.IsZero() {
		return Reminder{}, false
	}

	// A reminder restarts the interval so the same gap is not reported on
	// every evaluation tick.
	base := last
	if in.LastFired.After(base) {
		base = in.LastFired
	}
	if elapsedMinutes(in.Now, base) < cfg.IntervalMinutes {
		return Reminder{}, false
	}
	if !in.Hidden {
		return Reminder{}, false
	}

	return Reminder{
		At:             in.Now,
		ElapsedMinutes: elapsedMinutes(in.Now, last),
		Icon:           DefaultIcon,
	}, true
}

// InWindow reports whether now's local time of day lies within
// [ActiveStart, ActiveEnd], both ends inclusive. An inverted window
// (ActiveEnd before ActiveStart) is never active.
func InWindow(now time.Time, cfg settings.Config) bool {
	if cfg.Overnight() {
		return false
	}
	tod := settings.TimeOfDayOf(now)
	return tod >= cfg.ActiveStart && tod <= cfg.ActiveEnd
}

func elapsedMinutes(now, since time.Time) int {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
