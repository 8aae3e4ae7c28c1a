// Package poller keeps the review store filled from the App Store feed.
package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/store"
)

// The feed serves a reduced set of entries to unknown clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_3) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/35.0.1916.47 Safari/537.36"

// Config tunes a Poller.
type Config struct {
	FeedURL  string // contains {id} and {page}
	Interval time.Duration
	Lookback time.Duration
	MaxPages int
	Rate     float64 // feed requests per second
}

// Poller fetches recent reviews per app and stores the new ones.
type Poller struct {
	store   store.Store
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// New creates a poller writing into st.
func New(st store.Store, cfg Config, logger *zap.SugaredLogger) *Poller {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Poller{
		store:   st,
		cfg:     cfg,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Poller) pageURL(appID string, page int) string {
	return strings.NewReplacer("{id}", appID, "{page}", strconv.Itoa(page)).Replace(p.cfg.FeedURL)
}

// FetchPage returns one page of the app's feed.
func (p *Poller) FetchPage(ctx context.Context, appID string, page int) ([]model.Review, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	u := p.pageURL(appID, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch feed %s: status %d", u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return ParseFeed(body)
}

// Recent walks the feed newest first and returns reviews updated at or after oldest.
func (p *Poller) Recent(ctx context.Context, appID string, oldest time.Time) ([]model.Review, error) {
	var reviews []model.Review
	for page := 1; page <= p.cfg.MaxPages; page++ {
		batch, err := p.FetchPage(ctx, appID, page)
		if err != nil {
			return reviews, err
		}
		if len(batch) == 0 {
			break
		}
		for _, r := range batch {
			updated, _ := r.UpdatedAt()
			if updated.Before(oldest) {
				return reviews, nil
			}
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

// PollApp stores the app's reviews that are newer than the newest stored one.
func (p *Poller) PollApp(ctx context.Context, appID string) (int, error) {
	var newest time.Time
	switch r, err := p.store.NewestReview(ctx, appID); {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return 0, err
	default:
		newest, _ = r.UpdatedAt()
	}

	remote, err := p.Recent(ctx, appID, p.now().Add(-p.cfg.Lookback))
	if err != nil {
		return 0, err
	}

	fresh := make([]model.Review, 0, len(remote))
	for _, r := range remote {
		updated, _ := r.UpdatedAt()
		if newest.IsZero() || updated.After(newest) {
			fresh = append(fresh, r)
		}
	}
	added, err := p.store.InsertReviews(ctx, appID, fresh)
	if err != nil {
		return 0, err
	}
	p.logger.Infow("polled app", "app_id", appID, "fetched", len(remote), "added", added)
	return added, nil
}

// PollAll polls every app; one app failing does not stop the others.
func (p *Poller) PollAll(ctx context.Context, appIDs []string) error {
	var errs []error
	for _, id := range appIDs {
		if _, err := p.PollApp(ctx, id); err != nil {
			p.logger.Errorw("poll failed", "app_id", id, "error", err)
			errs = append(errs, fmt.Errorf("app %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Start polls once right away, then on every interval until ctx is done.
func (p *Poller) Start(ctx context.Context, appIDs []string) error {
	c := cron.New()
	schedule := "@every " + p.cfg.Interval.String()
	if _, err := c.AddFunc(schedule, func() { _ = p.PollAll(ctx, appIDs) }); err != nil {
		return fmt.Errorf("schedule poller %q: %w", schedule, err)
	}

	go func() {
		_ = p.PollAll(ctx, appIDs)
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		p.logger.Infow("poller stopped")
	}()
	p.logger.Infow("poller started", "apps", appIDs, "interval", p.cfg.Interval.String())
	return nil
}
