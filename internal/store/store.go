// Package store persists reviews for the review service.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/idilsaglam/reviews/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for reviews, grouped by app id.
type Store interface {
	// InsertReviews stores reviews for an app, skipping ids already stored.
	// It returns how many rows were added.
	InsertReviews(ctx context.Context, appID string, reviews []model.Review) (int, error)
	// ReviewsSince lists an app's reviews updated after since, newest first.
	ReviewsSince(ctx context.Context, appID string, since time.Time) ([]model.Review, error)
	// NewestReview returns the most recently updated review, or ErrNotFound.
	NewestReview(ctx context.Context, appID string) (*model.Review, error)
	// AppExists reports whether any review is stored for the app.
	AppExists(ctx context.Context, appID string) (bool, error)

	Close() error
}
