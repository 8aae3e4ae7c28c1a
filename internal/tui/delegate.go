package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/render"
)

// reviewItem adapts a Review to bubbles/list.Item
type reviewItem struct {
	review model.Review
}

func (i reviewItem) FilterValue() string { return i.review.Title }

func toItems(reviews []model.Review) []list.Item {
	items := make([]list.Item, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, reviewItem{review: r})
	}
	return items
}

// reviewDelegate renders each review as three lines (title, meta, content).
type reviewDelegate struct{}

func (d reviewDelegate) Height() int                               { return 3 }
func (d reviewDelegate) Spacing() int                              { return 1 }
func (d reviewDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d reviewDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(reviewItem)
	if !ok {
		return
	}
	lines := render.Compact(it.review, m.Width()-2)

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}
