package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// eventMsg wraps an event entry as a bubbletea message.
type eventMsg event.Entry

// eventsClosedMsg signals the event channel closed.
type eventsClosedMsg struct{}

// tickMsg refreshes the gauge and clock.
type tickMsg time.Time
