package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Reminders string // reminder schedule summary; empty when reminders are off
	Help      string // rendered key help
}

// RenderFooter renders the footer bar. Left side: reminder schedule.
// Right side: key help.
func RenderFooter(props FooterProps, width int) string {
	left := "reminders: off"
	if props.Reminders != "" {
		left = "reminders: " + props.Reminders
	}
	right := props.Help

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
