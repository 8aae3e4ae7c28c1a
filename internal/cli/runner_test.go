package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/reviews/internal/store"
	"github.com/idilsaglam/reviews/internal/store/jsonstore"
	"github.com/idilsaglam/reviews/internal/ui"
)

type env struct {
	dir        string
	configPath string
	out, err   *bytes.Buffer
}

// newEnv writes a config file into a temp dir; extra lines are appended as YAML.
func newEnv(t *testing.T, baseURL string, extra ...string) *env {
	t.Helper()
	ui.SetColorForcing(false, true)
	dir := t.TempDir()
	lines := []string{
		"base_url: " + baseURL,
		"request_timeout: 2s",
		"log:",
		"  file: " + filepath.Join(dir, "reviews.log"),
		"server:",
		"  db_path: " + filepath.Join(dir, "reviews.db"),
	}
	lines = append(lines, extra...)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return &env{dir: dir, configPath: path, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
}

func (e *env) run(args ...string) int {
	return Run(args, Options{ConfigPath: e.configPath, Out: e.out, Err: e.err})
}

func reviewServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RequestURI())
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

const twoReviews = `[
	{"id": 1, "authorName": "ann", "rating": 4.7, "title": "Fast delivery", "content": "Food was hot", "updated": "2023-03-15T10:00:00Z"},
	{"id": 2, "authorName": "bob", "rating": 1, "title": "Cold fries", "content": "Never again", "updated": "2023-03-14T10:00:00Z"}
]`

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	code := Run([]string{"help"}, Options{Out: &out, Err: &out})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Subcommands:")
}

func TestRun_UnknownSubcommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"frobnicate"}, Options{Out: &out, Err: &errOut})
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "unknown subcommand: frobnicate")
}

func TestRun_BadConfig(t *testing.T) {
	e := newEnv(t, "not a url")
	assert.Equal(t, 1, e.run("apps"))
	assert.Contains(t, e.err.String(), "config:")
}

func TestRun_Apps(t *testing.T) {
	e := newEnv(t, "http://localhost:8000", "default_app: youtube")
	require.Equal(t, 0, e.run("apps"))

	out := e.out.String()
	for _, name := range []string{"Snapchat", "Door Dash", "Youtube"} {
		assert.Contains(t, out, name)
	}
	var youtube string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Youtube") {
			youtube = line
		}
	}
	assert.Contains(t, youtube, "*")
}

func TestRun_Config(t *testing.T) {
	e := newEnv(t, "http://reviews.test", "default_app: door dash", "theme: neon")
	require.Equal(t, 0, e.run("config"))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(e.out.Bytes(), &got))
	assert.Equal(t, "http://reviews.test", got["base_url"])
	assert.Equal(t, "719972451", got["default_app"])
	assert.Equal(t, "2s", got["request_timeout"])
	assert.Equal(t, "neon", got["theme"])
	server := got["server"].(map[string]any)
	assert.Equal(t, "48h0m0s", server["lookback"])
}

func TestRun_List(t *testing.T) {
	srv, queries := reviewServer(t, http.StatusOK, twoReviews)
	e := newEnv(t, srv.URL)

	require.Equal(t, 0, e.run("ls", "door dash"), e.err.String())
	assert.Equal(t, []string{"/reviews?app_id=719972451"}, *queries)

	out := e.out.String()
	assert.Contains(t, out, "Door Dash")
	assert.Contains(t, out, "2 reviews")
	assert.Contains(t, out, "Fast delivery")
	assert.Contains(t, out, "March 15, 2023")
	assert.Less(t, strings.Index(out, "Fast delivery"), strings.Index(out, "Cold fries"))
}

func TestRun_ListDefaultApp(t *testing.T) {
	srv, queries := reviewServer(t, http.StatusOK, `[]`)
	e := newEnv(t, srv.URL)

	require.Equal(t, 0, e.run("ls"))
	assert.Equal(t, []string{"/reviews?app_id=447188370"}, *queries)
	assert.Contains(t, e.out.String(), "No reviews.")
}

func TestRun_ListErrors(t *testing.T) {
	srv, _ := reviewServer(t, http.StatusNotFound, `{"message": "no reviews"}`)
	e := newEnv(t, srv.URL)

	assert.Equal(t, 1, e.run("ls", "youtube"))
	assert.Contains(t, e.err.String(), "No reviews found for this app.")

	assert.Equal(t, 2, e.run("ls", "tiktok"))
	assert.Contains(t, e.err.String(), "unknown app: tiktok")

	assert.Equal(t, 2, e.run("ls", "a", "b"))
}

func TestRun_Export(t *testing.T) {
	srv, _ := reviewServer(t, http.StatusOK, twoReviews)
	e := newEnv(t, srv.URL)
	file := filepath.Join(e.dir, "export.json")

	require.Equal(t, 0, e.run("export", "snapchat", file), e.err.String())
	require.Equal(t, 0, e.run("export", "544007664", file), e.err.String())
	assert.Contains(t, e.out.String(), "exported 2 Snapchat reviews")

	f, err := jsonstore.Load(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"447188370", "544007664"}, f.AppIDs())
	assert.Equal(t, "Fast delivery", f["447188370"][0].Title)

	assert.Equal(t, 2, e.run("export", "snapchat"))
}

func TestRun_ExportIntoNullFile(t *testing.T) {
	srv, _ := reviewServer(t, http.StatusOK, twoReviews)
	e := newEnv(t, srv.URL)
	file := filepath.Join(e.dir, "null.json")
	require.NoError(t, os.WriteFile(file, []byte("null"), 0o644))

	require.Equal(t, 0, e.run("export", "youtube", file), e.err.String())

	f, err := jsonstore.Load(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"544007664"}, f.AppIDs())
}

func TestRun_Poll(t *testing.T) {
	updated := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	feed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/page=1/") {
			_, _ = w.Write([]byte(`{"feed": {}}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"feed": {"entry": [{
			"author": {"name": {"label": "ann"}, "uri": {"label": "https://example.com/ann"}},
			"updated": {"label": %q},
			"im:rating": {"label": "5"},
			"im:version": {"label": "1.0"},
			"id": {"label": "42"},
			"title": {"label": "Love it"},
			"content": {"label": "Great"}
		}]}}`, updated)
	})
	srv := httptest.NewServer(feed)
	t.Cleanup(srv.Close)

	e := newEnv(t, "http://localhost:8000",
		"poller:",
		"  feed_url: "+srv.URL+"/id={id}/page={page}/json",
		"  rate: 1000",
	)
	require.Equal(t, 0, e.run("poll"), e.err.String())
	assert.Contains(t, e.out.String(), "polled 3 apps")

	st, err := store.NewSQLiteStore(filepath.Join(e.dir, "reviews.db"))
	require.NoError(t, err)
	defer st.Close()
	got, err := st.ReviewsSince(context.Background(), "719972451", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Love it", got[0].Title)
}

func TestRun_ServeUsage(t *testing.T) {
	e := newEnv(t, "http://localhost:8000")
	assert.Equal(t, 2, e.run("serve", "extra"))
	assert.Equal(t, 2, e.run("serve", "--bogus"))
}

func TestSeed(t *testing.T) {
	e := newEnv(t, "http://localhost:8000")
	file := filepath.Join(e.dir, "seed.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"447188370": `+twoReviews+`}`), 0o644))

	st, err := store.NewSQLiteStore(filepath.Join(e.dir, "seed.db"))
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	require.NoError(t, seed(ctx, st, file, nopLogger()))
	got, err := st.ReviewsSince(ctx, "447188370", time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	assert.Error(t, seed(ctx, st, filepath.Join(e.dir, "missing.json"), nopLogger()))
}

func nopLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }
