package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the TUI.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Tabs
	Tab1 key.Binding
	Tab2 key.Binding

	// General
	Enter  key.Binding
	Search key.Binding
	Filter key.Binding
	Reload key.Binding
	Cancel key.Binding
	Quit   key.Binding
	Help   key.Binding

	// Package actions
	Install key.Binding
	Upgrade key.Binding
	Remove  key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the vim-flavoured default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("k/up", "move up", "up", "k"),
		Down:     bind("j/down", "move down", "down", "j"),
		Left:     bind("left", "previous tab", "left", "shift+tab"),
		Right:    bind("right", "next tab", "right", "tab"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdown", "page down", "pgdown", "ctrl+d"),
		Top:      bind("g", "go to top", "home", "g"),
		Bottom:   bind("G", "go to bottom", "end", "G"),

		Tab1: bind("1", "packages", "1"),
		Tab2: bind("2", "history", "2"),

		Enter:  bind("enter", "details", "enter"),
		Search: bind("/", "search", "/"),
		Filter: bind("f", "installed only", "f"),
		Reload: bind("R", "refresh", "R", "ctrl+r"),
		Cancel: bind("esc", "back / clear search", "esc", "backspace"),
		Quit:   bind("q", "quit", "q", "ctrl+c"),
		Help:   bind("?", "help", "?"),

		Install: bind("i", "install", "i"),
		Upgrade: bind("u", "upgrade", "u"),
		Remove:  bind("r", "remove", "r", "d"),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Search, k.Filter, k.Install, k.Upgrade, k.Remove, k.Reload, k.Help, k.Quit,
	}
}

// FullHelp groups the bindings of the help screen, one row per
// helpSections entry.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Left, k.Right, k.Tab1, k.Tab2},
		{k.Enter, k.Search, k.Filter, k.Reload, k.Cancel},
		{k.Install, k.Upgrade, k.Remove},
		{k.Help, k.Quit},
	}
}

var helpSections = []string{"Navigation", "Tabs", "Browsing", "Package actions", "General"}
