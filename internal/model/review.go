package model

import (
	"strings"
	"time"
)

// Review is a single app-store review as served by the review service.
// Records are read-only once decoded.
type Review struct {
	ID         int64   `json:"id"`
	AuthorName string  `json:"authorName"`
	AuthorURI  string  `json:"authorUri"`
	Rating     float64 `json:"rating"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Updated    string  `json:"updated" validate:"required,timestamp"`
	Version    string  `json:"version"`
}

// Layouts accepted for Review.Updated. The service has historically emitted
// both RFC 3339 and a space separated variant.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 style timestamp. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UpdatedAt returns the parsed Updated field.
func (r Review) UpdatedAt() (time.Time, bool) {
	return ParseTimestamp(r.Updated)
}
