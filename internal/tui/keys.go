package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/idilsaglam/reviews/internal/selector"
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
	inDetail bool
}

func newKeyMap() keyMap {
	return keyMap{
		Prev: selector.DefaultKeyMap.Prev,
		Next: selector.DefaultKeyMap.Next,
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Back: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	if k.inDetail {
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	}
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Open, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
