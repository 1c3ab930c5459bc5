// Package components holds reusable bubbletea widgets.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxLines bounds the number of lines a LogView retains.
const DefaultMaxLines = 500

// LogView is a scrollable, bounded log panel that wraps bubbles/viewport.
// In follow mode (default), new lines cause the view to auto-scroll to the
// bottom. Once more than maxLines are held, the oldest are dropped.
type LogView struct {
	vp       viewport.Model
	lines    []string // rendered (pre-styled) lines
	maxLines int
	follow   bool
}

// NewLogView creates a LogView with the given dimensions, initially in
// follow mode. maxLines <= 0 selects DefaultMaxLines.
func NewLogView(w, h, maxLines int) LogView {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return LogView{
		vp:       viewport.New(w, h),
		maxLines: maxLines,
		follow:   true,
	}
}

// AppendLine appends a pre-rendered line, dropping the oldest line when the
// view is full.
func (v LogView) AppendLine(rendered string) LogView {
	v.lines = append(v.lines, rendered)
	if over := len(v.lines) - v.maxLines; over > 0 {
		v.lines = append([]string(nil), v.lines[over:]...)
	}
	return v.refresh()
}

// Len returns the number of retained lines.
func (v LogView) Len() int { return len(v.lines) }

// ToggleFollow switches follow mode on or off.
// When turned on, scrolls immediately to the bottom.
func (v LogView) ToggleFollow() LogView {
	v.follow = !v.follow
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}

// Following reports whether follow mode is currently active.
func (v LogView) Following() bool { return v.follow }

// SetSize resizes the log view.
func (v LogView) SetSize(w, h int) LogView {
	v.vp.Width = w
	v.vp.Height = h
	return v.refresh()
}

// Update forwards scroll keys and mouse events to the viewport. Scrolling
// away from the bottom leaves follow mode.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	if v.follow && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.follow = false
		}
	}
	return v, cmd
}

// View renders the visible part of the log.
func (v LogView) View() string {
	return v.vp.View()
}

func (v LogView) refresh() LogView {
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.follow {
		v.vp.GotoBottom()
	}
	return v
}
