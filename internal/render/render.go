// Package render turns reviews into terminal text: the list, a single entry
// and the rating line.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/reviews/internal/model"
)

const dateLayout = "January 2, 2006"

// Stars is the number of filled stars shown for a rating: its floor.
// Ratings above 5 are not clamped; negative and NaN ratings show none.
func Stars(rating float64) int {
	if math.IsNaN(rating) || rating < 0 {
		return 0
	}
	n := math.Floor(rating)
	if n > maxStars {
		return maxStars
	}
	return int(n)
}

// Numeral formats a rating the shortest way: 4.7, 0, 6.
func Numeral(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// Rating renders the numeral followed by the star glyphs.
func Rating(rating float64) string {
	return numeralStyle.Render(Numeral(rating)) + starStyle.Render(strings.Repeat(starGlyph, Stars(rating)))
}

// FormatDate renders an updated timestamp as "March 15, 2023" (UTC).
func FormatDate(updated string) string {
	t, ok := model.ParseTimestamp(updated)
	if !ok {
		return "Invalid Date"
	}
	return t.UTC().Format(dateLayout)
}

// Entry renders one review as a card: title, author, date, content, rating.
func Entry(r model.Review, width int) string {
	inner := width - cardStyle.GetHorizontalFrameSize()
	body := lipgloss.NewStyle()
	if inner > 0 {
		body = body.Width(inner)
	}

	lines := []string{
		titleStyle.Render(r.Title),
		authorStyle.Render(r.AuthorName),
		mutedStyle.Render(FormatDate(r.Updated)),
		"",
		body.Render(r.Content),
		"",
		mutedStyle.Render("Rating:") + " " + Rating(r.Rating),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// List renders every review, in the order given, one entry each.
func List(reviews []model.Review, width int) string {
	if len(reviews) == 0 {
		return mutedStyle.Render("No reviews.")
	}
	entries := make([]string, 0, len(reviews))
	for _, r := range reviews {
		entries = append(entries, Entry(r, width))
	}
	return strings.Join(entries, "\n")
}

// Compact renders a review in three lines for the interactive list.
func Compact(r model.Review, width int) []string {
	clip := lipgloss.NewStyle()
	if width > 0 {
		clip = clip.MaxWidth(width)
	}
	meta := r.AuthorName + mutedStyle.Render(" · "+FormatDate(r.Updated)+" · ") + Rating(r.Rating)
	content := strings.Join(strings.Fields(r.Content), " ")
	return []string{
		clip.Render(titleStyle.Render(r.Title)),
		clip.Render(meta),
		clip.Render(mutedStyle.Render(content)),
	}
}
