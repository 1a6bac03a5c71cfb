package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the view.
type keyMap struct {
	// Global
	Close      key.Binding
	Exit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Engine
	Load    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Random  key.Binding
	Rescan  key.Binding
	Shuffle key.Binding

	// Panels
	Settings key.Binding
	Logs     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Settings panel
	NextPage key.Binding
	PrevPage key.Binding
	Edit     key.Binding

	// Log pane
	CycleLevel key.Binding
	Follow     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Close: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Close view"),
		),
		Exit: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Stop engine and quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to presets"),
		),

		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Load preset"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next wallpaper"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Previous wallpaper"),
		),
		Random: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Random wallpaper"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Rescan presets"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Start/stop shuffle timer"),
		),

		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Settings"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log pane"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Move left / decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Move right / increase"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to first"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to last"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next settings page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous settings page"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Edit / toggle"),
		),

		CycleLevel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle log level"),
		),
		Follow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Next, k.Prev, k.Random, k.Settings, k.Help, k.Close}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom},
		{k.Load, k.Next, k.Prev, k.Random, k.Rescan, k.Shuffle},
		{k.Settings, k.NextPage, k.PrevPage, k.Edit},
		{k.Logs, k.CycleLevel, k.Follow},
		{k.CycleTheme, k.Help, k.Escape, k.Close, k.Exit},
	}
}
