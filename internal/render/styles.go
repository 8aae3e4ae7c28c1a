package render

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	authorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	numeralStyle = lipgloss.NewStyle().PaddingRight(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const (
	starGlyph = "★"
	// maxStars bounds the glyph run for nonsensical ratings from the service.
	maxStars = 100
)
