package reviewapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Reviews(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/reviews", r.URL.Path)
		assert.Equal(t, "719972451", r.URL.Query().Get("app_id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[{"id": 7, "rating": 5, "title": "Fast", "updated": "2023-03-15T10:00:00Z"}]`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL + "/"}, nil)
	reviews, err := c.Reviews(context.Background(), "719972451")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Fast", reviews[0].Title)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ReviewsURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:8000/"}, nil)
	assert.Equal(t, "http://localhost:8000/reviews?app_id=447188370", c.ReviewsURL("447188370"))
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "message": "no reviews for app", "status": 404}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, nil)
	_, err := c.Reviews(context.Background(), "1")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "no reviews for app", se.Message)
	assert.Equal(t, "No reviews found for this app.", Describe(err))
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, nil)
	_, err := c.Reviews(context.Background(), "1")
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.Contains(t, Describe(err), "could not be read")
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil)
	_, err := c.Reviews(context.Background(), "1")
	assert.ErrorIs(t, err, ErrRequest)
	assert.Equal(t, "Could not reach the review service.", Describe(err))
}
