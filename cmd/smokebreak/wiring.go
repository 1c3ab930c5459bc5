package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/advisory"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/config"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/journal"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/notify"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/reminder"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/storage"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/tui"
)

// sqliteFile is the database name used by the sqlite backend.
const sqliteFile = "smokebreak.db"

// app holds the long-lived components every command shares.
type app struct {
	cfg      *config.Config
	ledger   *history.Ledger
	settings *settings.Store
	notifier *notify.Notifier

	// warnings are non-fatal load problems (unreadable history or settings
	// that were replaced by empty/default values).
	warnings []error

	closeBlobs func() error
}

// openApp loads configuration, opens storage and restores the ledger and
// settings. Unreadable persisted data is not fatal: it is reported in
// warnings and the affected store starts from its defaults.
func openApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	blobs, closeBlobs, err := openBlobs(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		ledger:     history.NewLedger(history.NewBlobRepository(blobs)),
		settings:   settings.NewStore(settings.NewBlobRepository(blobs)),
		notifier:   notify.New(cfg.Notifications.URL, cfg.Notifications.Title, cfg.Notifications.OnComplete),
		closeBlobs: closeBlobs,
	}
	if err := a.ledger.Load(); err != nil {
		a.warnings = append(a.warnings, err)
	}
	if err := a.settings.Load(); err != nil {
		a.warnings = append(a.warnings, err)
	}
	if a.settings.Get().NotificationsEnabled {
		a.notifier.RequestPermission()
	}
	return a, nil
}

// openBlobs opens the configured storage backend.
func openBlobs(cfg *config.Config) (storage.Blobs, func() error, error) {
	if err := os.MkdirAll(cfg.Storage.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("storage: mkdir %q: %w", cfg.Storage.Dir, err)
	}
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := storage.OpenSQLite(filepath.Join(cfg.Storage.Dir, sqliteFile))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return storage.NewDir(cfg.Storage.Dir), func() error { return nil }, nil
	}
}

// reportWarnings prints load warnings to w.
func (a *app) reportWarnings(w io.Writer) {
	for _, err := range a.warnings {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

// Close flushes pending notifications and closes storage.
func (a *app) Close() error {
	a.notifier.Wait()
	return a.closeBlobs()
}

// reload picks up history and settings written by other smokebreak
// processes, such as a session run or "settings set" while a watcher is
// up. A newly enabled opt-in asks for notification permission once.
func (a *app) reload() {
	a.ledger.Refresh()
	if a.settings.Refresh() && a.settings.Get().NotificationsEnabled &&
		a.notifier.Permission() == notify.PermissionDefault {
		a.notifier.RequestPermission()
	}
}

// newScheduler builds a reminder scheduler that reloads shared state before
// every evaluation.
func (a *app) newScheduler(focus reminder.FocusSignal, events chan<- event.Entry) *reminder.Scheduler {
	sched := reminder.New(a.settings, a.ledger, focus, a.notifier)
	sched.Period = a.cfg.EvaluatePeriod()
	sched.Events = events
	sched.Reload = a.reload
	return sched
}

// advisor returns the advisory client, or nil when none is configured.
func (a *app) advisor() session.Advisor {
	c := advisory.New(a.cfg.Advisory.URL, a.cfg.Advisory.Token)
	if !c.Enabled() {
		return nil
	}
	return c
}

// eventSink fans events out to the journal, the notifier and one display
// (stdout lines or the TUI channel).
type eventSink struct {
	events  chan event.Entry
	journal *journal.Journal
	done    chan struct{}
}

// startSink opens a journal and starts draining events. display is called
// for every entry after it is journaled.
func (a *app) startSink(display func(event.Entry)) (*eventSink, error) {
	dir := a.cfg.JournalDir()
	j, err := journal.Open(dir)
	if err != nil {
		return nil, err
	}
	if a.cfg.Journal.Retention > 0 {
		if err := journal.EnforceRetention(dir, a.cfg.Journal.Retention); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	s := &eventSink{
		events:  make(chan event.Entry, 128),
		journal: j,
		done:    make(chan struct{}),
	}
	for _, w := range a.warnings {
		event.Emit(s.events, event.Entry{Kind: event.Warning, Message: w.Error()})
	}
	go func() {
		defer close(s.done)
		for entry := range s.events {
			_ = j.Append(entry)
			a.notifier.Hook(entry)
			display(entry)
		}
	}()
	return s, nil
}

// close stops the drain once every producer has stopped emitting.
func (s *eventSink) close() error {
	close(s.events)
	<-s.done
	return s.journal.Close()
}

// sessionParts is the running session machinery.
type sessionParts struct {
	engine    *session.Engine
	runner    *session.Runner
	scheduler *reminder.Scheduler
}

// newSession wires engine, runner and scheduler to the sink. focus may be
// nil, in which case reminders treat the app as backgrounded.
func (a *app) newSession(item catalog.Item, sink *eventSink, focus reminder.FocusSignal) *sessionParts {
	engine := session.New(a.ledger, a.advisor(), item)
	engine.Duration = a.cfg.SessionDuration()
	engine.Events = sink.events

	sched := a.newScheduler(focus, sink.events)

	a.ledger.OnChange = sched.Restart
	a.settings.OnChange = func(settings.Config) { sched.Restart() }

	return &sessionParts{
		engine:    engine,
		runner:    session.NewRunner(engine, a.cfg.TickPeriod()),
		scheduler: sched,
	}
}

// shutdown stops every producer in dependency order so nothing emits into
// a closed sink.
func (p *sessionParts) shutdown() {
	p.runner.Close()
	p.engine.Wait()
	p.scheduler.Stop()
}

// resolveItem picks the item from the flag, falling back to config.
func (a *app) resolveItem(flag string) (catalog.Item, error) {
	id := flag
	if id == "" {
		id = a.cfg.Session.Item
	}
	return catalog.Find(id)
}

// runSessionTUI runs the interactive session screen until the user quits
// or ctx is cancelled.
func runSessionTUI(ctx context.Context, a *app, item catalog.Item) error {
	uiEvents := make(chan event.Entry, 128)
	sink, err := a.startSink(func(e event.Entry) {
		select {
		case uiEvents <- e:
		default:
		}
	})
	if err != nil {
		return err
	}

	vis := tui.NewVisibility(a.cfg.IdleAfter())
	parts := a.newSession(item, sink, vis)
	parts.scheduler.Start(ctx)

	model := tui.New(tui.Options{
		Events:      uiEvents,
		Session:     parts.engine,
		Controller:  parts.runner,
		Ledger:      a.ledger,
		Settings:    a.settings,
		Visibility:  vis,
		AccentColor: a.cfg.TUI.AccentColor,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))

	_, runErr := program.Run()

	parts.shutdown()
	sinkErr := sink.close()
	close(uiEvents)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("tui: %w", runErr)
	}
	return sinkErr
}

// runSessionHeadless runs one session to completion (or until ctx is
// cancelled), printing events to out.
func runSessionHeadless(ctx context.Context, a *app, item catalog.Item, out io.Writer) error {
	var mu sync.Mutex
	sink, err := a.startSink(func(e event.Entry) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, formatLogLine(e))
	})
	if err != nil {
		return err
	}

	parts := a.newSession(item, sink, nil)
	if !parts.runner.Start() {
		parts.shutdown()
		_ = sink.close()
		return fmt.Errorf("session: could not start")
	}

	select {
	case <-parts.runner.Done():
	case <-ctx.Done():
	}
	parts.shutdown()
	if err := sink.close(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return nil
	}
	sum := parts.engine.Summary()
	fmt.Fprintf(out, "Saved %s this time, %s in total.\n",
		catalog.FormatMoney(sum.Record.SavedAmount), catalog.FormatMoney(sum.Total))
	if sum.Advice != "" {
		fmt.Fprintln(out, sum.Advice)
	}
	return nil
}

// runWatch evaluates reminders until ctx is cancelled, printing events to
// out. Without a terminal to watch, the app always counts as backgrounded.
func runWatch(ctx context.Context, a *app, out io.Writer) error {
	sink, err := a.startSink(func(e event.Entry) {
		fmt.Fprintln(out, formatLogLine(e))
	})
	if err != nil {
		return err
	}

	sched := a.newScheduler(nil, sink.events)
	a.settings.OnChange = func(settings.Config) { sched.Restart() }

	cfg := a.settings.Get()
	if !cfg.NotificationsEnabled {
		fmt.Fprintln(out, "Reminders are off; enable them with: smokebreak settings set --notifications")
	}
	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	return sink.close()
}
