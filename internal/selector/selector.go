// Package selector is the app picker shown above the review list.
package selector

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/reviews/internal/model"
)

// AppSelectedMsg is what the default callback emits after a selection.
type AppSelectedMsg struct {
	ID string
}

// OnSelect is called with the selected app id every time Select runs.
type OnSelect func(id string) tea.Cmd

// KeyMap holds the selector's bindings.
type KeyMap struct {
	Prev key.Binding
	Next key.Binding
}

// DefaultKeyMap moves with arrows, h/l and tab.
var DefaultKeyMap = KeyMap{
	Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "prev app")),
	Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "next app")),
}

var (
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	selectedStyle = buttonStyle.Bold(true).Reverse(true)
	unselected    = buttonStyle.Faint(true)
)

// Model holds the selected index into a fixed list of apps.
type Model struct {
	apps     []model.AppDescriptor
	index    int
	onSelect OnSelect
	Keys     KeyMap
}

// New returns a selector over apps with index preselected. A nil onSelect
// emits AppSelectedMsg.
func New(apps []model.AppDescriptor, index int, onSelect OnSelect) Model {
	if onSelect == nil {
		onSelect = func(id string) tea.Cmd {
			return func() tea.Msg { return AppSelectedMsg{ID: id} }
		}
	}
	return Model{apps: apps, index: index, onSelect: onSelect, Keys: DefaultKeyMap}
}

// Select marks the app at index as selected and hands its id to the callback.
// index must be within the app list.
func (m *Model) Select(index int) tea.Cmd {
	m.index = index
	return m.onSelect(m.apps[index].ID)
}

// Index is the selected position.
func (m Model) Index() int { return m.index }

// Selected is the selected app.
func (m Model) Selected() model.AppDescriptor { return m.apps[m.index] }

// Update maps key presses to selections. Digits pick an app by its 1-based position.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(m.apps) == 0 {
		return m, nil
	}
	n := len(m.apps)
	switch {
	case key.Matches(km, m.Keys.Prev):
		cmd := m.Select((m.index - 1 + n) % n)
		return m, cmd
	case key.Matches(km, m.Keys.Next):
		cmd := m.Select((m.index + 1) % n)
		return m, cmd
	}
	if d, err := strconv.Atoi(km.String()); err == nil && d >= 1 && d <= n {
		cmd := m.Select(d - 1)
		return m, cmd
	}
	return m, nil
}

// View renders the apps as a row of buttons.
func (m Model) View() string {
	buttons := make([]string, 0, len(m.apps))
	for i, a := range m.apps {
		if i == m.index {
			buttons = append(buttons, selectedStyle.Render(a.Name))
		} else {
			buttons = append(buttons, unselected.Render(a.Name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
