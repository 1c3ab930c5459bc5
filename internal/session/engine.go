// Package session drives one simulated session at a time: a fixed-duration
// burn whose progress advances on ticks and whose completion is written to
// the history ledger.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
)

// DefaultDuration is how long a session takes to burn from 0 to 100%.
const DefaultDuration = 60 * time.Second

// FallbackAdvice replaces the advisory message when the advisor fails.
const FallbackAdvice = "Every one you skip stays in your pocket."

// ErrActive is returned by Select while a session is running.
var ErrActive = errors.New("session: active")

// Phase is the session lifecycle position.
type Phase int

const (
	Idle Phase = iota
	Active
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the engine.
type State struct {
	Phase    Phase
	Progress float64 // 0..100
	Item     catalog.Item
}

// Summary describes the last completed session. It is transient: Start and
// Reset clear it.
type Summary struct {
	Record        history.Record
	Total         float64
	Advice        string
	AdvicePending bool
}

// Ledger is the part of history.Ledger the engine writes to.
type Ledger interface {
	NewRecord(now time.Time, itemLabel string, saved float64) history.Record
	Append(rec history.Record) (float64, error)
}

// Advisor produces a short message about a completed session. An empty
// message with a nil error means "no message".
type Advisor interface {
	Message(ctx context.Context, savedAmount float64) (string, error)
}

// Engine is the session state machine. It is safe for concurrent use.
type Engine struct {
	ledger  Ledger
	advisor Advisor

	// Duration of a full session; DefaultDuration when zero.
	Duration time.Duration
	// Events receives session events; may be nil.
	Events chan<- event.Entry
	// Now returns the current instant; time.Now when nil.
	Now func() time.Time

	mu      sync.Mutex
	state   State
	summary Summary
	gen     uint64 // bumped on Start/Reset/completion; stale advice is dropped

	advice sync.WaitGroup
}

// New creates an Idle engine with item selected. advisor may be nil.
func New(ledger Ledger, advisor Advisor, item catalog.Item) *Engine {
	return &Engine{
		ledger:   ledger,
		advisor:  advisor,
		Duration: DefaultDuration,
		state:    State{Phase: Idle, Item: item},
	}
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Summary returns the last completion summary.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

// Select changes the item for the next session. It fails while Active.
func (e *Engine) Select(item catalog.Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase == Active {
		return fmt.Errorf("%w: cannot change item mid-session", ErrActive)
	}
	e.state.Item = item
	return nil
}

// Start moves Idle to Active with progress 0. It is a no-op (returning
// false) when Active or Completed; leave Completed with Reset first.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != Idle {
		return false
	}
	e.state.Phase = Active
	e.state.Progress = 0
	e.summary = Summary{}
	e.gen++
	e.emit(event.Entry{Kind: event.SessionStart, Item: e.state.Item.Name, Message: "Lit " + e.state.Item.Name})
	return true
}

// Tick advances progress by elapsed/Duration. It does nothing outside
// Active. When progress reaches 100 the session completes and the record
// is appended to the ledger before Tick returns.
func (e *Engine) Tick(elapsed time.Duration) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != Active || elapsed <= 0 {
		return e.state
	}

	dur := e.Duration
	if dur <= 0 {
		dur = DefaultDuration
	}
	e.state.Progress += float64(elapsed) / float64(dur) * 100
	if e.state.Progress >= 100 {
		e.state.Progress = 100
		e.state.Phase = Completed
		e.completeLocked()
	}
	return e.state
}

// Stop aborts an Active session back to Idle without recording anything.
// It returns false when not Active.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != Active {
		return false
	}
	progress := e.state.Progress
	e.state.Phase = Idle
	e.state.Progress = 0
	e.emit(event.Entry{Kind: event.SessionStop, Item: e.state.Item.Name, Progress: progress,
		Message: fmt.Sprintf("Put out at %.0f%%", progress)})
	return true
}

// Reset clears a Completed session back to Idle. It is a no-op from Idle,
// and from Active (call Stop instead).
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Phase != Completed {
		return false
	}
	e.state.Phase = Idle
	e.state.Progress = 0
	e.summary = Summary{}
	e.gen++
	e.emit(event.Entry{Kind: event.SessionReset, Message: "Ready for another"})
	return true
}

// Wait blocks until every advisory request issued so far has finished.
func (e *Engine) Wait() {
	e.advice.Wait()
}

// completeLocked records the finished session and asks for advice. The
// ledger write happens first; advice never affects it.
func (e *Engine) completeLocked() {
	item := e.state.Item
	rec := e.ledger.NewRecord(e.now(), item.Name, item.Price)
	total, err := e.ledger.Append(rec)
	if err != nil {
		e.emit(event.Entry{Kind: event.Warning, Message: fmt.Sprintf("History not saved to disk: %v", err)})
	}

	e.gen++
	e.summary = Summary{Record: rec, Total: total, AdvicePending: e.advisor != nil}
	e.emit(event.Entry{
		Kind:     event.SessionComplete,
		Item:     item.Name,
		Progress: 100,
		Saved:    item.Price,
		Total:    total,
		Message:  fmt.Sprintf("Finished %s, saved %s (total %s)",
			item.Name, catalog.FormatMoney(item.Price), catalog.FormatMoney(total)),
	})

	if e.advisor == nil {
		return
	}
	e.advice.Add(1)
	go e.requestAdvice(e.gen, item.Price)
}

func (e *Engine) requestAdvice(gen uint64, saved float64) {
	defer e.advice.Done()

	msg, err := e.advisor.Message(context.Background(), saved)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return
	}
	if err != nil {
		e.emit(event.Entry{Kind: event.Warning, Message: fmt.Sprintf("Advisory unavailable: %v", err)})
		msg = FallbackAdvice
	}
	e.summary.Advice = msg
	e.summary.AdvicePending = false
	if msg != "" {
		e.emit(event.Entry{Kind: event.Advice, Saved: saved, Message: msg})
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) emit(entry event.Entry) {
	event.Emit(e.Events, entry)
}
