package session

import (
	"context"
	"sync"
	"time"
)

// DefaultTickPeriod is how often the Runner ticks an Active session.
const DefaultTickPeriod = 50 * time.Millisecond

// Runner owns the ticker that drives an Engine while a session is Active.
// The ticker is created when a session starts and disposed when it stops,
// completes or is reset.
type Runner struct {
	engine *Engine
	period time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns a Runner ticking engine every period
// (DefaultTickPeriod when period <= 0).
func NewRunner(engine *Engine, period time.Duration) *Runner {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &Runner{engine: engine, period: period}
}

// Engine returns the driven engine.
func (r *Runner) Engine() *Engine { return r.engine }

// Start starts a session and its ticker. It returns false, without starting
// a ticker, when the engine was not Idle.
func (r *Runner) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine.State().Phase != Idle {
		return false
	}
	r.haltLocked()
	if !r.engine.Start() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go r.tickLoop(ctx, done)
	return true
}

// Stop halts the ticker, waiting for it to exit, then aborts the session.
// No tick is delivered after Stop returns.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.haltLocked()
	return r.engine.Stop()
}

// Reset clears a Completed session.
func (r *Runner) Reset() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.haltLocked()
	return r.engine.Reset()
}

// Done returns a channel closed when the current ticker exits, either
// because the session completed or because it was stopped. It returns nil
// when no ticker has been started.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Close halts the ticker and aborts any Active session.
func (r *Runner) Close() {
	r.Stop()
}

func (r *Runner) tickLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Re-check after the wake-up: cancel may have raced the tick.
			if ctx.Err() != nil {
				return
			}
			if st := r.engine.Tick(r.period); st.Phase != Active {
				return
			}
		}
	}
}

func (r *Runner) haltLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}
