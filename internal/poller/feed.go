package poller

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/idilsaglam/reviews/internal/model"
)

// ParseFeed maps the App Store customer review feed to reviews. Entries
// without a rating (the feed's app summary entry) are skipped.
func ParseFeed(body []byte) ([]model.Review, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("feed is not JSON")
	}
	entry := gjson.GetBytes(body, "feed.entry")

	var entries []gjson.Result
	switch {
	case entry.IsArray():
		entries = entry.Array()
	case entry.IsObject():
		entries = []gjson.Result{entry}
	}

	reviews := make([]model.Review, 0, len(entries))
	for i, e := range entries {
		ratingLabel := e.Get("im:rating.label")
		if !ratingLabel.Exists() {
			continue
		}
		rating, err := strconv.ParseFloat(ratingLabel.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: rating %q: %w", i, ratingLabel.String(), err)
		}
		id, err := strconv.ParseInt(e.Get("id.label").String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %d: id: %w", i, err)
		}
		updated, ok := model.ParseTimestamp(e.Get("updated.label").String())
		if !ok {
			return nil, fmt.Errorf("entry %d: updated %q", i, e.Get("updated.label").String())
		}
		reviews = append(reviews, model.Review{
			ID:         id,
			AuthorName: e.Get("author.name.label").String(),
			AuthorURI:  e.Get("author.uri.label").String(),
			Rating:     rating,
			Title:      e.Get("title.label").String(),
			Content:    e.Get("content.label").String(),
			Updated:    updated.UTC().Format("2006-01-02T15:04:05Z"),
			Version:    e.Get("im:version.label").String(),
		})
	}
	return reviews, nil
}
