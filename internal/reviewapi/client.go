// Package reviewapi is the client side of the review service.
package reviewapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/idilsaglam/reviews/internal/model"
)

const maxBodyBytes = 8 << 20

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches reviews for a single app per call. Calls are independent:
// nothing is cached and nothing is deduplicated.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.SugaredLogger
}

// NewClient creates a client. A nil logger discards log output.
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// ReviewsURL is the request URL for an app id.
func (c *Client) ReviewsURL(appID string) string {
	return c.baseURL + "/reviews?app_id=" + url.QueryEscape(appID)
}

// Reviews issues one GET for the app's reviews and returns them in the order
// the service sent them.
func (c *Client) Reviews(ctx context.Context, appID string) ([]model.Review, error) {
	u := c.ReviewsURL(appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("review request failed", "url", u, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}
	c.logger.Infow("review response", "url", u, "status", resp.StatusCode, "bytes", len(body), "took", time.Since(start))

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}

	reviews, err := Parse(body)
	if err != nil {
		c.logger.Warnw("review response rejected", "url", u, "error", err)
		return nil, err
	}
	return reviews, nil
}

// errorMessage pulls the message out of the service's JSON error envelope.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Exists() {
			return m.String()
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
