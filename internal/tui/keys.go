package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Select    key.Binding
	Search    key.Binding
	Next      key.Binding
	Prev      key.Binding
	PrevSheet key.Binding
	NextSheet key.Binding
	Open      key.Binding
	Refresh   key.Binding
	AddFolder key.Binding
	Remove    key.Binding
	Cancel    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/toggle")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n/N", "next/prev match")),
		Prev:      key.NewBinding(key.WithKeys("N")),
		PrevSheet: key.NewBinding(key.WithKeys("[")),
		NextSheet: key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "sheet")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open externally")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		AddFolder: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add folder")),
		Remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove folder")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) sidebarHelp() []key.Binding {
	return []key.Binding{k.Select, k.AddFolder, k.Remove, k.Refresh, k.Search, k.Open, k.Focus, k.Quit}
}

func (k keyMap) gridHelp() []key.Binding {
	return []key.Binding{k.Search, k.Next, k.NextSheet, k.Open, k.Focus, k.Quit}
}

func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		k.Cancel,
	}
}

func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/↓", "next")),
		key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "prev")),
		k.Cancel,
	}
}
