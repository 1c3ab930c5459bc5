package main

import (
	"fmt"
	"strings"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/catalog"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/event"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/history"
	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/settings"
)

// formatLogLine renders an event as one plain-text line for --no-tui output.
func formatLogLine(e event.Entry) string {
	ts := e.Timestamp.Format("15:04:05")
	return fmt.Sprintf("[%s] %-16s %s", ts, e.Kind, e.Message)
}

// formatHistory renders ledger records newest first, at most limit of them
// (0 = all), followed by the total.
func formatHistory(recs []history.Record, total float64, limit int) string {
	if len(recs) == 0 {
		return "No sessions recorded yet.\n"
	}

	var b strings.Builder
	b.WriteString("History\n")
	b.WriteString("───────\n")
	shown := recs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, r := range shown {
		fmt.Fprintf(&b, "  %s  %-16s %10s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"), r.ItemLabel, catalog.FormatMoney(r.SavedAmount))
	}
	if len(shown) < len(recs) {
		fmt.Fprintf(&b, "  … %d older\n", len(recs)-len(shown))
	}
	fmt.Fprintf(&b, "  %-34s %10s\n", fmt.Sprintf("Total (%d sessions):", len(recs)), catalog.FormatMoney(total))
	return b.String()
}

// formatSettings renders the reminder settings.
func formatSettings(cfg settings.Config) string {
	var b strings.Builder
	b.WriteString("Settings\n")
	b.WriteString("────────\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "Active start:", cfg.ActiveStart)
	fmt.Fprintf(&b, "  %-20s %s\n", "Active end:", cfg.ActiveEnd)
	fmt.Fprintf(&b, "  %-20s %d minutes\n", "Interval:", cfg.IntervalMinutes)
	fmt.Fprintf(&b, "  %-20s %s\n", "Notifications:", onOff(cfg.NotificationsEnabled))
	if cfg.Overnight() {
		b.WriteString("  Note: the active window ends before it starts, so reminders never fire.\n")
	}
	return b.String()
}

// formatCatalog renders the item catalog, marking the default.
func formatCatalog(items []catalog.Item, defaultID string) string {
	var b strings.Builder
	b.WriteString("Catalog\n")
	b.WriteString("───────\n")
	for _, it := range items {
		mark := " "
		if it.ID == defaultID {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-10s %-16s %8s\n", mark, it.ID, it.Name, catalog.FormatMoney(it.Price))
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
