// Package tui provides a bubbletea + lipgloss terminal UI for a session.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// defaultAccentColor is the default accent color (ember orange).
const defaultAccentColor = "#FF7F3F"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorAsh    = lipgloss.Color("#5C5C5C")
)

// Styles used across the TUI. Accent-dependent styles live on Theme.
var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	adviceStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Italic(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(colorYellow).
			Bold(true).
			Padding(0, 1)
)

// kindIcon returns the icon shown before a log line of the given kind.
func kindIcon(k event.Kind) string {
	switch k {
	case event.SessionStart:
		return "🔥"
	case event.SessionStop:
		return "⏹"
	case event.SessionComplete:
		return "✅"
	case event.SessionReset:
		return "↺"
	case event.Advice:
		return "💬"
	case event.Reminder:
		return "⏰"
	case event.Warning:
		return "⚠"
	case event.Error:
		return "❌"
	default:
		return "·"
	}
}

// kindStyle returns the lipgloss style for a log line of the given kind.
func kindStyle(k event.Kind) lipgloss.Style {
	switch k {
	case event.SessionComplete:
		return resultStyle
	case event.SessionStop, event.SessionReset:
		return dimStyle
	case event.Advice:
		return adviceStyle
	case event.Reminder, event.Warning:
		return warningStyle
	case event.Error:
		return errorStyle
	default:
		return infoStyle
	}
}
