package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
)

// keyMap defines all key bindings for the TUI application.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Tab1     key.Binding
	Tab2     key.Binding
	Tab3     key.Binding
	Tab4     key.Binding
	Tab5     key.Binding
	Tab6     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	GoTop    key.Binding
	GoBottom key.Binding
	Sort     key.Binding
	Kill     key.Binding
	Apply    key.Binding
	Help     key.Binding
	Refresh  key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextTab, k.Sort, k.Kill, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5, k.Tab6},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GoTop, k.GoBottom},
		{k.Sort, k.Kill, k.Apply, k.Refresh, k.Help, k.Quit},
	}
}

// tableKeys maps the process table's navigation onto the application
// bindings. "k" is taken by Kill, so vim-style up is not bound.
func (k keyMap) tableKeys() table.KeyMap {
	return table.KeyMap{
		LineUp:     k.Up,
		LineDown:   k.Down,
		PageUp:     k.PageUp,
		PageDown:   k.PageDown,
		GotoTop:    k.GoTop,
		GotoBottom: k.GoBottom,
	}
}

// keys holds the default key bindings used by the application.
var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	NextTab:  key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next tab")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev tab")),
	Tab1:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	Tab2:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "processes")),
	Tab3:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "disk")),
	Tab4:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "network")),
	Tab5:     key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "system")),
	Tab6:     key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "settings")),
	Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "move up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/dn", "move down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	GoTop:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	GoBottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	Kill:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "terminate")),
	Apply:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply theme")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Refresh:  key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
}
