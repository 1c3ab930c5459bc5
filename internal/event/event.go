// Package event defines the structured event stream shared by the session
// engine, the reminder scheduler and their hosts.
package event

import "time"

// Kind identifies the type of an event.
type Kind int

const (
	Info            Kind = iota // General informational message
	SessionStart                // Session entered Active
	SessionStop                 // Session aborted back to Idle
	SessionComplete             // Session reached 100% and was recorded
	SessionReset                // Completed session cleared back to Idle
	Advice                      // Advisory message arrived for the last session
	Reminder                    // Reminder fired
	Warning                     // Non-fatal failure (persistence, advisory, ...)
	Error                       // Failure surfaced to the user
)

var kindNames = map[Kind]string{
	Info:            "info",
	SessionStart:    "session_start",
	SessionStop:     "session_stop",
	SessionComplete: "session_complete",
	SessionReset:    "session_reset",
	Advice:          "advice",
	Reminder:        "reminder",
	Warning:         "warning",
	Error:           "error",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Entry is a structured event. Hosts render it, the journal persists it and
// the notify hook forwards selected kinds.
type Entry struct {
	Kind      Kind
	Timestamp time.Time
	Message   string

	// Session fields
	Item     string
	Progress float64
	Saved    float64
	Total    float64

	// Reminder fields
	ElapsedMinutes int
	Icon           string
}

// Emit sends e on ch without blocking. A nil channel or a full buffer drops
// the entry so slow consumers never stall a timer goroutine.
func Emit(ch chan<- Entry, e Entry) {
	if ch == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
	default:
	}
}
