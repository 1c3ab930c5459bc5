package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/tui/components"
)

// DefaultRefresh is how often the gauge re-reads the engine.
const DefaultRefresh = 100 * time.Millisecond

// Session is the engine state the TUI displays.
type Session interface {
	State() session.State
	Summary() session.Summary
	Select(item catalog.Item) error
}

// Controller starts, stops and resets sessions. session.Runner implements it.
type Controller interface {
	Start() bool
	Stop() bool
	Reset() bool
}

// Ledger is the read side of the history ledger.
type Ledger interface {
	Total() float64
	Len() int
	Latest() (history.Record, bool)
}

// SettingsSource supplies the reminder settings shown in the footer.
type SettingsSource interface {
	Get() settings.Config
}

// Options wires a Model to the application.
type Options struct {
	Events     <-chan event.Entry
	Session    Session
	Controller Controller
	Ledger     Ledger
	Settings   SettingsSource // may be nil
	Visibility *Visibility    // may be nil

	AccentColor string
	Refresh     time.Duration // DefaultRefresh when zero
}

// Model is the root bubbletea model for the SmokeBreak TUI.
type Model struct {
	opts Options

	keys     KeyMap
	help     help.Model
	progress progress.Model
	log      components.LogView

	layout Layout
	theme  Theme
	width  int
	height int

	// Snapshot of the engine and ledger
	state    session.State
	summary  session.Summary
	total    float64
	sessions int
	last     time.Time

	banner string // last reminder, cleared when a session starts
	now    time.Time
	done   bool
}

// New creates the TUI Model.
func New(opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)
	logW, logH := innerDims(layout.Log)

	m := Model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithGradient("#FFD93D", th.Accent()), progress.WithoutPercentage()),
		log:      components.NewLogView(logW, logH, 0),
		layout:   layout,
		theme:    th,
		width:    80,
		height:   24,
		now:      time.Now(),
	}
	m.progress.Width = gaugeBarWidth(layout)
	return m.refresh()
}

// Init returns the initial commands: event listener + refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.opts.Events), tickCmd(m.opts.Refresh))
}

// tickCmd schedules the next refresh.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the event channel and returns the next message.
func waitForEvent(ch <-chan event.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(entry)
	}
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		if m.opts.Visibility != nil {
			m.opts.Visibility.Touch()
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.opts.Visibility != nil {
			m.opts.Visibility.Touch()
		}
	case tea.FocusMsg:
		if m.opts.Visibility != nil {
			m.opts.Visibility.SetHidden(false)
		}
		return m, nil
	case tea.BlurMsg:
		if m.opts.Visibility != nil {
			m.opts.Visibility.SetHidden(true)
		}
		return m, nil
	case eventMsg:
		return m.handleEvent(event.Entry(msg))
	case tickMsg:
		m.now = time.Time(msg)
		return m.refresh(), tickCmd(m.opts.Refresh)
	case eventsClosedMsg:
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		logW, logH := innerDims(m.layout.Log)
		m.log = m.log.SetSize(logW, logH)
		m.progress.Width = gaugeBarWidth(m.layout)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.ForPhase(m.state.Phase)
	switch {
	case key.Matches(msg, keys.Quit):
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, keys.Start):
		if m.opts.Controller != nil {
			m.opts.Controller.Start()
		}
		return m.refresh(), nil
	case key.Matches(msg, keys.Stop):
		if m.opts.Controller != nil {
			m.opts.Controller.Stop()
		}
		return m.refresh(), nil
	case key.Matches(msg, keys.Reset):
		if m.opts.Controller != nil {
			m.opts.Controller.Reset()
		}
		return m.refresh(), nil
	case key.Matches(msg, keys.Item):
		return m.nextItem(), nil
	case key.Matches(msg, keys.Follow):
		m.log = m.log.ToggleFollow()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m Model) handleEvent(entry event.Entry) (tea.Model, tea.Cmd) {
	switch entry.Kind {
	case event.Reminder:
		m.banner = entry.Message
	case event.SessionStart:
		m.banner = ""
	}
	m.log = m.log.AppendLine(m.theme.RenderLogLine(entry, m.layout.Log.Width))
	return m.refresh(), waitForEvent(m.opts.Events)
}

// nextItem selects the catalog item after the current one.
func (m Model) nextItem() Model {
	if m.opts.Session == nil {
		return m
	}
	items := catalog.All()
	next := items[0]
	for i, it := range items {
		if it.ID == m.state.Item.ID {
			next = items[(i+1)%len(items)]
			break
		}
	}
	if err := m.opts.Session.Select(next); err != nil {
		m.log = m.log.AppendLine(m.theme.RenderLogLine(event.Entry{
			Kind:      event.Warning,
			Timestamp: m.now,
			Message:   err.Error(),
		}, m.layout.Log.Width))
	}
	return m.refresh()
}

// refresh re-reads the engine and ledger snapshots.
func (m Model) refresh() Model {
	if m.opts.Session != nil {
		m.state = m.opts.Session.State()
		m.summary = m.opts.Session.Summary()
	}
	if m.opts.Ledger != nil {
		m.total = m.opts.Ledger.Total()
		m.sessions = m.opts.Ledger.Len()
		if rec, ok := m.opts.Ledger.Latest(); ok {
			m.last = rec.Timestamp
		}
	}
	return m
}

// gaugeBarWidth returns the progress bar width for the gauge panel.
func gaugeBarWidth(l Layout) int {
	w, _ := innerDims(l.Gauge)
	w -= 2
	if w < 10 {
		w = 10
	}
	return w
}
