package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/tui/panels"
)

// View renders the header, session gauge, event log and footer.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.", m.width, m.height, minWidth, minHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	props := panels.HeaderProps{
		ItemName:    m.state.Item.Name,
		ItemPrice:   catalog.FormatMoney(m.state.Item.Price),
		TotalSaved:  catalog.FormatMoney(m.total),
		Sessions:    m.sessions,
		StateSymbol: phaseSymbol(m.state.Phase),
		StateLabel:  phaseLabel(m.state.Phase),
		Clock:       m.now,
	}
	if !m.last.IsZero() && m.now.After(m.last) {
		props.SinceLast = m.now.Sub(m.last)
	}
	header := panels.RenderHeader(props, m.layout.Header.Width, m.theme.HeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Reminders: m.reminderSummary(),
		Help:      m.help.View(m.keys.ForPhase(m.state.Phase)),
	}, m.layout.Footer.Width)

	gaugeW, gaugeH := innerDims(m.layout.Gauge)
	logW, logH := innerDims(m.layout.Log)

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.BorderStyle().
			Width(gaugeW).Height(gaugeH).
			Render(m.renderGauge()),
		m.theme.BorderStyle().
			Width(logW).Height(logH).
			Render(m.log.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderGauge renders the session panel: status, bar, outcome and banner.
func (m Model) renderGauge() string {
	lines := []string{
		fmt.Sprintf("%s  %s %s  %3.0f%%",
			infoStyle.Render(m.state.Item.Name),
			phaseSymbol(m.state.Phase), phaseLabel(m.state.Phase),
			m.state.Progress),
		" " + m.progress.ViewAs(m.state.Progress/100),
	}

	switch m.state.Phase {
	case session.Idle:
		lines = append(lines, dimStyle.Render("Press s to light up, i to switch item."))
	case session.Active:
		lines = append(lines, dimStyle.Render("Burning… press x to put it out."))
	case session.Completed:
		lines = append(lines, resultStyle.Render(fmt.Sprintf("Saved %s  ·  total %s",
			catalog.FormatMoney(m.summary.Record.SavedAmount),
			catalog.FormatMoney(m.summary.Total))))
		switch {
		case m.summary.AdvicePending:
			lines = append(lines, dimStyle.Render("…"))
		case m.summary.Advice != "":
			lines = append(lines, adviceStyle.Render("💬 "+singleLine(m.summary.Advice)))
		}
	}

	if m.banner != "" {
		lines = append(lines, bannerStyle.Render("⏰ "+singleLine(m.banner)))
	}
	return strings.Join(lines, "\n")
}

// reminderSummary describes the reminder settings, or "" when reminders
// are off.
func (m Model) reminderSummary() string {
	if m.opts.Settings == nil {
		return ""
	}
	cfg := m.opts.Settings.Get()
	if !cfg.NotificationsEnabled {
		return ""
	}
	s := fmt.Sprintf("every %dm, %s-%s", cfg.IntervalMinutes, cfg.ActiveStart, cfg.ActiveEnd)
	if cfg.Overnight() {
		s += " (overnight windows never fire)"
	}
	return s
}
