package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
)

// Theme holds accent-color-derived styles.
type Theme struct {
	accent      lipgloss.Color
	headerStyle lipgloss.Style
	border      lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#FF7F3F").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: c,
		headerStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
	}
}

// Accent returns the accent color.
func (t Theme) Accent() string { return string(t.accent) }

// HeaderStyle returns the style for the header bar.
func (t Theme) HeaderStyle() lipgloss.Style { return t.headerStyle }

// BorderStyle returns the panel border style.
func (t Theme) BorderStyle() lipgloss.Style { return t.border }

// RenderLogLine renders an event entry as a single terminal line no wider
// than width.
func (t Theme) RenderLogLine(entry event.Entry, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")))

	text := singleLine(entry.Message)
	if entry.Kind == event.Reminder && entry.ElapsedMinutes > 0 && !strings.Contains(text, "minutes") {
		text = fmt.Sprintf("%s (%d min)", text, entry.ElapsedMinutes)
	}
	maxText := width - 16
	if maxText < 20 {
		maxText = 20
	}
	if runes := []rune(text); len(runes) > maxText {
		text = string(runes[:maxText-1]) + "…"
	}
	return fmt.Sprintf("%s  %s", ts, kindStyle(entry.Kind).Render(kindIcon(entry.Kind)+" "+text))
}

// singleLine collapses newlines and tabs so a message fits on one row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
