// Package panels renders the fixed bars of the SmokeBreak TUI.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// Amounts arrive preformatted so this package stays free of money rules.
type HeaderProps struct {
	ItemName    string
	ItemPrice   string
	TotalSaved  string
	Sessions    int
	StateSymbol string // e.g. "●", "○", "✓"
	StateLabel  string // e.g. "BURNING", "IDLE", "DONE"
	SinceLast   time.Duration
	Clock       time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header bar width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	item := props.ItemName
	if item == "" {
		item = "—"
	}
	if props.ItemPrice != "" {
		item += " (" + props.ItemPrice + ")"
	}

	saved := props.TotalSaved
	if saved == "" {
		saved = "—"
	}

	parts := []string{
		"🚬 SmokeBreak",
		"item: " + item,
		fmt.Sprintf("saved: %s in %d", saved, props.Sessions),
	}

	stateLabel := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		stateLabel = props.StateSymbol + " " + props.StateLabel
	}
	if stateLabel != "" {
		parts = append(parts, stateLabel)
	}
	if props.SinceLast > 0 {
		parts = append(parts, "last: "+FormatElapsed(props.SinceLast)+" ago")
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).Render(content)
}
