package server

import (
	"errors"
	"net/http"

	"github.com/idilsaglam/reviews/internal/model"
)

var (
	errAppIDMissing  = errors.New("app_id is required")
	errAppIDRepeated = errors.New("app_id must be given once")
	errAppIDFormat   = errors.New("app_id must contain only digits")
)

func appIDParam(r *http.Request) (string, error) {
	values := r.URL.Query()["app_id"]
	switch {
	case len(values) == 0:
		return "", errAppIDMissing
	case len(values) > 1:
		return "", errAppIDRepeated
	}
	id := values[0]
	if id == "" {
		return "", errAppIDMissing
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return "", errAppIDFormat
		}
	}
	return id, nil
}

// getReviewsHandler returns the app's reviews from the lookback window, newest first.
func (s *Server) getReviewsHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := appIDParam(r)
	if err != nil {
		s.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()
	exists, err := s.store.AppExists(ctx, appID)
	if err != nil {
		s.internalServerError(w, r, err)
		return
	}
	if !exists {
		s.notFoundResponse(w, r, "no reviews found for app "+appID)
		return
	}

	reviews, err := s.store.ReviewsSince(ctx, appID, s.now().Add(-s.cfg.Lookback))
	if err != nil {
		s.internalServerError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	if err := writeJSON(w, http.StatusOK, reviews); err != nil {
		s.logger.Errorw("write response", "error", err)
	}
}
