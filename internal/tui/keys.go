package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up               key.Binding
	Down             key.Binding
	Top              key.Binding
	Bottom           key.Binding
	PageDown         key.Binding
	PageUp           key.Binding
	Search           key.Binding
	ClearSearch      key.Binding
	Sort             key.Binding
	SortLatest       key.Binding
	SortOldest       key.Binding
	SortAlpha        key.Binding
	SortReverseAlpha key.Binding
	ToggleView       key.Binding
	Open             key.Binding
	YankURL          key.Binding
	Edit             key.Binding
	Delete           key.Binding
	Reload           key.Binding
	Logout           key.Binding
	Confirm          key.Binding
	Cancel           key.Binding
	Help             key.Binding
	Quit             key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		Search: key.NewBinding(
			key.WithKeys("/", "ctrl+k"),
			key.WithHelp("/", "search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle sort"),
		),
		SortLatest: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "latest first"),
		),
		SortOldest: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "oldest first"),
		),
		SortAlpha: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "a-z"),
		),
		SortReverseAlpha: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "z-a"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle view"),
		),
		Open: key.NewBinding(
			key.WithKeys("l", "enter"),
			key.WithHelp("l/enter", "open on x.com"),
		),
		YankURL: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "yank link"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
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
