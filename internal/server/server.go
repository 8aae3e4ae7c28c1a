// Package server serves stored reviews over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/idilsaglam/reviews/internal/store"
)

// Config holds the listen address and the review window.
type Config struct {
	Addr     string
	Lookback time.Duration
}

// Server answers GET /reviews from a Store.
type Server struct {
	store  store.Store
	cfg    Config
	logger *zap.SugaredLogger
	now    func() time.Time
}

func New(st store.Store, cfg Config, logger *zap.SugaredLogger) *Server {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{store: st, cfg: cfg, logger: logger, now: time.Now}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(noCache)

	r.Get("/reviews", s.getReviewsHandler)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.notFoundResponse(w, r, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.notFoundResponse(w, r, "not found")
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Infow("shutting down server", "addr", s.cfg.Addr)
		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Infow("server has started", "addr", s.cfg.Addr, "lookback", s.cfg.Lookback.String())

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}
	s.logger.Infow("server has stopped", "addr", s.cfg.Addr)
	return nil
}
