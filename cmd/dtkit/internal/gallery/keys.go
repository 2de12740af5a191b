package gallery

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Checkbox key.Binding
	Dropdown key.Binding
	Modal    key.Binding
	Toast    key.Binding
	Tooltip  key.Binding
	Theme    key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Checkbox: key.NewBinding(key.WithKeys("c", " "), key.WithHelp("c/space", "checkbox")),
		Dropdown: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dropdown")),
		Modal:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "modal")),
		Toast:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toast")),
		Tooltip:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hover tooltip")),
		Theme:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "light/dark")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous item")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next item")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Checkbox, k.Dropdown, k.Modal, k.Toast, k.Tooltip, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Checkbox, k.Dropdown, k.Modal, k.Toast},
		{k.Tooltip, k.Theme, k.Up, k.Down},
		{k.Enter, k.Escape, k.Quit},
	}
}
