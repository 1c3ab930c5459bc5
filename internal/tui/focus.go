package tui

import (
	"sync/atomic"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
)

// Visibility tracks whether the terminal window holds focus. The TUI flips
// it on focus and blur reports; the reminder scheduler reads it from its
// own goroutine.
//
// Terminals that never report focus leave it in the foreground forever, so
// until the first focus report arrives, Visibility counts the terminal as
// hidden once no input has been seen for the idle period.
type Visibility struct {
	hidden    atomic.Bool
	reported  atomic.Bool  // a focus or blur report has arrived
	lastInput atomic.Int64 // UnixNano of the last key or mouse input

	idleAfter time.Duration // 0 disables the idle fallback
	now       func() time.Time
}

// NewVisibility returns a Visibility that starts in the foreground.
// idleAfter is the idle period used before any focus report; zero
// disables it.
func NewVisibility(idleAfter time.Duration) *Visibility {
	v := &Visibility{idleAfter: idleAfter, now: time.Now}
	v.Touch()
	return v
}

// Hidden reports whether the terminal is in the background.
func (v *Visibility) Hidden() bool {
	if v.reported.Load() {
		return v.hidden.Load()
	}
	if v.idleAfter <= 0 {
		return false
	}
	idle := v.now().Sub(time.Unix(0, v.lastInput.Load()))
	return idle >= v.idleAfter
}

// SetHidden records a focus change. From then on only focus reports count.
func (v *Visibility) SetHidden(hidden bool) {
	v.hidden.Store(hidden)
	v.reported.Store(true)
}

// Touch records user input.
func (v *Visibility) Touch() {
	v.lastInput.Store(v.now().UnixNano())
}

// phaseLabel returns a short uppercase label for the phase.
func phaseLabel(p session.Phase) string {
	switch p {
	case session.Idle:
		return "IDLE"
	case session.Active:
		return "BURNING"
	case session.Completed:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// phaseSymbol returns a single-character symbol for the phase.
func phaseSymbol(p session.Phase) string {
	switch p {
	case session.Idle:
		return "○"
	case session.Active:
		return "●"
	case session.Completed:
		return "✓"
	default:
		return "?"
	}
}
