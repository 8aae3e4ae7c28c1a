package reviewapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/idilsaglam/reviews/internal/model"
)

// Parse decodes a response body into reviews. Anything other than a JSON
// array of review objects is rejected with ErrInvalidData.
func Parse(body []byte) ([]model.Review, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidData)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected an array, got %s", ErrInvalidData, root.Type)
	}

	items := root.Array()
	reviews := make([]model.Review, 0, len(items))
	for i, item := range items {
		r, err := parseReview(item)
		if err != nil {
			return nil, fmt.Errorf("%w: review %d: %v", ErrInvalidData, i, err)
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func parseReview(item gjson.Result) (model.Review, error) {
	var r model.Review
	if !item.IsObject() {
		return r, fmt.Errorf("expected an object, got %s", item.Type)
	}

	id, err := numberField(item, "id")
	if err != nil {
		return r, err
	}
	if id != float64(int64(id)) {
		return r, fmt.Errorf("id: %v is not an integer", id)
	}
	rating, err := numberField(item, "rating")
	if err != nil {
		return r, err
	}
	r.ID = int64(id)
	r.Rating = rating

	if r.Title, err = titleField(item); err != nil {
		return r, err
	}

	fields := []struct {
		key string
		dst *string
	}{
		{"authorName", &r.AuthorName},
		{"authorUri", &r.AuthorURI},
		{"content", &r.Content},
		{"updated", &r.Updated},
		{"version", &r.Version},
	}
	for _, f := range fields {
		if *f.dst, err = stringField(item, f.key); err != nil {
			return r, err
		}
	}

	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

// numberField accepts JSON numbers and numeric strings.
func numberField(item gjson.Result, key string) (float64, error) {
	v := item.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%s: %q is not a finite number", key, v.Str)
		}
		return n, nil
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("%s: missing", key)
		}
		return 0, fmt.Errorf("%s: null", key)
	default:
		return 0, fmt.Errorf("%s: expected a number, got %s", key, v.Type)
	}
}

// titleField requires the title to be present as a JSON string.
func titleField(item gjson.Result) (string, error) {
	v := item.Get("title")
	switch {
	case !v.Exists():
		return "", fmt.Errorf("title: missing")
	case v.Type != gjson.String:
		return "", fmt.Errorf("title: expected a string, got %s", v.Type)
	}
	return v.Str, nil
}

// stringField treats absent and null as empty; numbers keep their raw text.
func stringField(item gjson.Result, key string) (string, error) {
	v := item.Get(key)
	switch v.Type {
	case gjson.String:
		return v.Str, nil
	case gjson.Null:
		return "", nil
	case gjson.Number:
		return v.Raw, nil
	default:
		return "", fmt.Errorf("%s: expected a string, got %s", key, v.Type)
	}
}
