package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

// DefaultPeriod is how often the scheduler evaluates.
const DefaultPeriod = 60 * time.Second

// ConfigSource provides the current reminder configuration.
// *settings.Store satisfies this interface.
type ConfigSource interface {
	Get() settings.Config
}

// LatestSource provides the newest ledger record.
// *history.Ledger satisfies this interface.
type LatestSource interface {
	Latest() (history.Record, bool)
}

// FocusSignal reports whether the host app is hidden or backgrounded.
type FocusSignal interface {
	Hidden() bool
}

// FocusFunc adapts a function to FocusSignal.
type FocusFunc func() bool

// Hidden calls f.
func (f FocusFunc) Hidden() bool { return f() }

// Notifier delivers reminders. Allowed reports whether the user granted
// permission; Show is fire-and-forget.
type Notifier interface {
	Allowed() bool
	Show(title, body, icon string)
}

// Scheduler evaluates reminders on a fixed period. The evaluation timer is
// owned by the scheduler and replaced wholesale by Restart.
type Scheduler struct {
	settings ConfigSource
	ledger   LatestSource
	focus    FocusSignal
	notifier Notifier

	// Period between evaluations; DefaultPeriod when zero.
	Period time.Duration
	// Events receives reminder events; may be nil.
	Events chan<- event.Entry
	// Now returns the current instant; time.Now when nil.
	Now func() time.Time
	// Reload, if set, runs before every evaluation so state saved by other
	// processes is seen. It must not call Restart or Stop.
	Reload func()

	// ctl guards the timer handle. It is never held while evaluating, so
	// Restart can wait for the timer goroutine without deadlocking.
	ctl    sync.Mutex
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
	starts int // timers launched so far

	mu        sync.Mutex
	since     time.Time
	lastFired time.Time
}

// New creates a stopped Scheduler. notifier may be nil, in which case
// reminders are only emitted as events.
func New(cfg ConfigSource, ledger LatestSource, focus FocusSignal, notifier Notifier) *Scheduler {
	return &Scheduler{
		settings: cfg,
		ledger:   ledger,
		focus:    focus,
		notifier: notifier,
		Period:   DefaultPeriod,
	}
}

// Start begins periodic evaluation until ctx is done or Stop is called.
// The first call also fixes the empty-ledger baseline to the current time.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.since.IsZero() {
		s.since = s.now()
	}
	s.mu.Unlock()

	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.haltLocked()
	s.parent = ctx
	s.launchLocked()
}

// Restart cancels the running timer, waits for it to exit and starts a
// fresh one. It is a no-op if the scheduler was never started or has been
// stopped.
func (s *Scheduler) Restart() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.parent == nil {
		return
	}
	s.haltLocked()
	s.launchLocked()
}

// Stop halts evaluation and waits for the timer goroutine to exit.
func (s *Scheduler) Stop() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.haltLocked()
	s.parent = nil
}

// EvaluateNow runs one evaluation immediately, delivering the reminder if
// one fires.
func (s *Scheduler) EvaluateNow() (Reminder, bool) {
	if s.Reload != nil {
		s.Reload()
	}
	in := Input{
		Now:    s.now(),
		Config: s.settings.Get(),
		Hidden: s.focus == nil || s.focus.Hidden(),
	}
	if rec, ok := s.ledger.Latest(); ok {
		in.LastEvent = rec.Timestamp
	}

	s.mu.Lock()
	if s.since.IsZero() {
		s.since = in.Now
	}
	in.Since = s.since
	in.LastFired = s.lastFired
	r, fire := Evaluate(in)
	if fire {
		s.lastFired = in.Now
	}
	s.mu.Unlock()

	if fire {
		s.deliver(r)
	}
	return r, fire
}

// LastFired returns when the scheduler last fired a reminder.
func (s *Scheduler) LastFired() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFired
}

// Body formats the notification text for r.
func Body(r Reminder) string {
	return fmt.Sprintf("%d minutes since your last one.", r.ElapsedMinutes)
}

// Title is the notification title for every reminder.
const Title = "Time for a break?"

func (s *Scheduler) deliver(r Reminder) {
	delivered := s.notifier != nil && s.notifier.Allowed()
	msg := Body(r)
	if delivered {
		s.notifier.Show(Title, msg, r.Icon)
	} else {
		msg += " (notifications not permitted)"
	}
	event.Emit(s.Events, event.Entry{
		Kind:           event.Reminder,
		Timestamp:      r.At,
		Message:        msg,
		ElapsedMinutes: r.ElapsedMinutes,
		Icon:           r.Icon,
	})
}

func (s *Scheduler) launchLocked() {
	ctx, cancel := context.WithCancel(s.parent)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.starts++

	period := s.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				s.EvaluateNow()
			}
		}
	}()
}

func (s *Scheduler) haltLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
