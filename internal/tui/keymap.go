package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Filtering
	Search        key.Binding
	ThisMonth     key.Binding
	LastMonth     key.Binding
	ThisYear      key.Binding
	ClearRange    key.Binding
	CycleCategory key.Binding

	// Sorting
	SortDate     key.Binding
	SortCategory key.Binding
	SortAmount   key.Binding

	// Actions
	CycleCurrency key.Binding
	ToggleTheme   key.Binding
	Delete        key.Binding
	ClearAll      key.Binding
	Export        key.Binding

	// Search input
	Apply  key.Binding
	Cancel key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ThisMonth: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "this month"),
		),
		LastMonth: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "last month"),
		),
		ThisYear: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "this year"),
		),
		ClearRange: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear dates"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),

		SortDate: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort date"),
		),
		SortCategory: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort category"),
		),
		SortAmount: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort amount"),
		),

		CycleCurrency: key.NewBinding(
			key.WithKeys("$"),
			key.WithHelp("$", "currency"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear all"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),

		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "done"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.CycleCategory, k.SortDate, k.Export, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.CycleCategory},
		{k.ThisMonth, k.LastMonth, k.ThisYear, k.ClearRange},
		{k.SortDate, k.SortCategory, k.SortAmount},
		{k.CycleCurrency, k.ToggleTheme, k.Export},
		{k.Delete, k.ClearAll, k.Help, k.Quit},
	}
}
