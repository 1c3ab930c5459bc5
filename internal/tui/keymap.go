package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/LISSConsulting/LISSTech.SmokeBreak/internal/session"
)

// KeyMap lists the session key bindings. It implements help.KeyMap.
type KeyMap struct {
	Start  key.Binding
	Stop   key.Binding
	Reset  key.Binding
	Item   key.Binding
	Follow key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Item: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "next item"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ForPhase returns a copy with only the bindings that act in phase enabled.
func (k KeyMap) ForPhase(p session.Phase) KeyMap {
	k.Start.SetEnabled(p == session.Idle)
	k.Stop.SetEnabled(p == session.Active)
	k.Reset.SetEnabled(p == session.Completed)
	k.Item.SetEnabled(p != session.Active)
	return k
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Reset, k.Item, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Reset},
		{k.Item, k.Follow},
		{k.Help, k.Quit},
	}
}
