// ABOUTME: Key bindings for the workspace TUI
// ABOUTME: Backs both key matching and the help footer
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Generate key.Binding
	Retry    key.Binding
	Channel  key.Binding
	Email    key.Binding
	LinkedIn key.Binding
	Call     key.Binding
	Copy     key.Binding
	Sync     key.Binding
	Handoff  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Generate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-run")),
		Channel:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "channel")),
		Email:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "email")),
		LinkedIn: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "linkedin")),
		Call:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "call")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy draft")),
		Sync:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "crm sync")),
		Handoff:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hand off")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Generate, k.Retry, k.Channel, k.Copy, k.Sync, k.Handoff, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Generate, k.Retry},
		{k.Channel, k.Email, k.LinkedIn, k.Call},
		{k.Copy, k.Sync, k.Handoff},
		{k.PageUp, k.PageDown, k.Quit},
	}
}
