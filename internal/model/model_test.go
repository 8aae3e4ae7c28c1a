package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2023-03-15T10:00:00Z", time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-03-15 10:00:00+00:00", time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-03-15T10:00:00", time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2023-03-15", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ParseTimestamp(tc.in)
		require.True(t, ok, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %s", tc.in, got)
	}

	_, ok := ParseTimestamp("yesterday")
	assert.False(t, ok)
}

func TestIndexOf(t *testing.T) {
	i, ok := IndexOf(Apps, "719972451")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = IndexOf(Apps, "door dash")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = IndexOf(Apps, "tiktok")
	assert.False(t, ok)
}

func TestCatalogContainsDefault(t *testing.T) {
	a, ok := Lookup(Apps, DefaultAppID)
	require.True(t, ok)
	assert.Equal(t, "Snapchat", a.Name)
	assert.Len(t, Apps, 3)
}

func TestReviewValidate(t *testing.T) {
	r := Review{ID: 1, Title: "ok", Updated: "2023-03-15T10:00:00Z"}
	assert.NoError(t, r.Validate())

	r.Updated = "not a date"
	assert.Error(t, r.Validate())

	r.Updated = ""
	assert.Error(t, r.Validate())
}
