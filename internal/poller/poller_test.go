package poller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/reviews/internal/store"
)

func feedEntry(id int, updated string, rating int) string {
	return fmt.Sprintf(`{
		"author": {"uri": {"label": "https://itunes.apple.com/us/reviews/id%d"}, "name": {"label": "user%d"}},
		"updated": {"label": %q},
		"im:rating": {"label": "%d"},
		"im:version": {"label": "12.0"},
		"id": {"label": "%d"},
		"title": {"label": "title %d"},
		"content": {"label": "content %d"}
	}`, id, id, updated, rating, id, id, id)
}

func feed(entries ...string) string {
	return `{"feed": {"entry": [` + strings.Join(entries, ",") + `]}}`
}

func TestParseFeed(t *testing.T) {
	summary := `{"im:name": {"label": "Snapchat"}}`
	body := feed(summary, feedEntry(100, "2023-03-15T03:04:05-07:00", 4))

	reviews, err := ParseFeed([]byte(body))
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	r := reviews[0]
	assert.Equal(t, int64(100), r.ID)
	assert.Equal(t, "user100", r.AuthorName)
	assert.Equal(t, 4.0, r.Rating)
	assert.Equal(t, "title 100", r.Title)
	assert.Equal(t, "2023-03-15T10:04:05Z", r.Updated)
	assert.Equal(t, "12.0", r.Version)
}

func TestParseFeed_SingleEntryObject(t *testing.T) {
	body := `{"feed": {"entry": ` + feedEntry(1, "2023-03-15T10:00:00Z", 5) + `}}`
	reviews, err := ParseFeed([]byte(body))
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestParseFeed_Empty(t *testing.T) {
	reviews, err := ParseFeed([]byte(`{"feed": {"author": {}}}`))
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = ParseFeed([]byte(`<rss/>`))
	assert.Error(t, err)
}

type feedServer struct {
	mu    sync.Mutex
	pages map[string]string
	hits  []string
	ua    []string
}

func (f *feedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits = append(f.hits, r.URL.Path)
	f.ua = append(f.ua, r.Header.Get("User-Agent"))
	body, ok := f.pages[r.URL.Path]
	if !ok {
		body = feed()
	}
	_, _ = w.Write([]byte(body))
}

func newTestPoller(t *testing.T, fs *feedServer) (*Poller, store.Store) {
	t.Helper()
	server := httptest.NewServer(fs)
	t.Cleanup(server.Close)

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "poll.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	p := New(st, Config{
		FeedURL:  server.URL + "/id={id}/page={page}/json",
		Interval: time.Minute,
		Lookback: 48 * time.Hour,
		MaxPages: 10,
		Rate:     1000,
	}, nil)
	p.now = func() time.Time { return time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC) }
	return p, st
}

func TestPollApp_StopsAtLookback(t *testing.T) {
	fs := &feedServer{pages: map[string]string{
		"/id=447188370/page=1/json": feed(
			feedEntry(3, "2023-03-15T10:00:00Z", 5),
			feedEntry(2, "2023-03-14T12:00:00Z", 3),
		),
		"/id=447188370/page=2/json": feed(
			feedEntry(1, "2023-03-13T12:00:00Z", 1),
		),
		"/id=447188370/page=3/json": feed(
			feedEntry(0, "2023-03-12T12:00:00Z", 1),
		),
	}}
	p, st := newTestPoller(t, fs)
	ctx := context.Background()

	added, err := p.PollApp(ctx, "447188370")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"/id=447188370/page=1/json", "/id=447188370/page=2/json"}, fs.hits)
	assert.Equal(t, userAgent, fs.ua[0])

	got, err := st.ReviewsSince(ctx, "447188370", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)

	// Nothing newer than what is stored: nothing added.
	added, err = p.PollApp(ctx, "447188370")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestPollApp_StopsOnEmptyPage(t *testing.T) {
	fs := &feedServer{pages: map[string]string{
		"/id=719972451/page=1/json": feed(feedEntry(7, "2023-03-15T10:00:00Z", 2)),
	}}
	p, _ := newTestPoller(t, fs)

	added, err := p.PollApp(context.Background(), "719972451")
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, fs.hits, 2)
}

func TestPollApp_MaxPages(t *testing.T) {
	fs := &feedServer{pages: map[string]string{}}
	for page := 1; page <= 5; page++ {
		fs.pages[fmt.Sprintf("/id=1/page=%d/json", page)] = feed(feedEntry(page, "2023-03-15T10:00:00Z", 5))
	}
	p, _ := newTestPoller(t, fs)
	p.cfg.MaxPages = 3

	added, err := p.PollApp(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Len(t, fs.hits, 3)
}

func TestPollAll_ReportsFailures(t *testing.T) {
	fs := &feedServer{pages: map[string]string{
		"/id=2/page=1/json": `not json`,
	}}
	p, _ := newTestPoller(t, fs)

	err := p.PollAll(context.Background(), []string{"1", "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app 2")
	assert.NotContains(t, err.Error(), "app 1")
}
