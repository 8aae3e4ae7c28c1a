package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/idilsaglam/reviews/internal/config"
	"github.com/idilsaglam/reviews/internal/logging"
	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/poller"
	"github.com/idilsaglam/reviews/internal/server"
	"github.com/idilsaglam/reviews/internal/store"
	"github.com/idilsaglam/reviews/internal/store/jsonstore"
	"github.com/idilsaglam/reviews/internal/ui"
)

func appIDs() []string {
	ids := make([]string, len(model.Apps))
	for i, a := range model.Apps {
		ids[i] = a.ID
	}
	return ids
}

func openStore(ctx context.Context, cfg *config.Config) (*store.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Server.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Server.DBPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newPoller(st store.Store, cfg *config.Config, logger *zap.SugaredLogger) *poller.Poller {
	return poller.New(st, poller.Config{
		FeedURL:  cfg.Poller.FeedURL,
		Interval: cfg.Poller.Interval,
		Lookback: cfg.Poller.Lookback,
		MaxPages: cfg.Poller.MaxPages,
		Rate:     cfg.Poller.Rate,
	}, logger)
}

// seed loads a JSON review file into the store.
func seed(ctx context.Context, st store.Store, path string, logger *zap.SugaredLogger) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("seed file: %w", err)
	}
	f, err := jsonstore.Load(path)
	if err != nil {
		return err
	}
	for _, appID := range f.AppIDs() {
		added, err := st.InsertReviews(ctx, appID, f[appID])
		if err != nil {
			return fmt.Errorf("seed app %s: %w", appID, err)
		}
		logger.Infow("seeded app", "app_id", appID, "added", added)
	}
	return nil
}

func doServe(cfg *config.Config, opt Options, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(opt.Err)
	seedPath := fs.String("seed", "", "JSON review file to load before serving")
	noPoll := fs.Bool("no-poll", false, "serve stored reviews without polling the feed")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		ui.Fail(opt.Err, "usage: reviews serve [--seed file] [--no-poll]")
		return 2
	}

	logger, err := logging.Stdout(cfg.Log.Level)
	if err != nil {
		ui.Fail(opt.Err, "log: "+err.Error())
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		ui.Fail(opt.Err, "store: "+err.Error())
		return 1
	}
	defer st.Close()

	if *seedPath != "" {
		if err := seed(ctx, st, *seedPath, logger); err != nil {
			ui.Fail(opt.Err, "seed: "+err.Error())
			return 1
		}
	}

	if !*noPoll {
		if err := newPoller(st, cfg, logger).Start(ctx, appIDs()); err != nil {
			ui.Fail(opt.Err, "poller: "+err.Error())
			return 1
		}
	}

	srv := server.New(st, server.Config{Addr: cfg.Server.Addr, Lookback: cfg.Server.Lookback}, logger)
	if err := srv.Run(ctx); err != nil {
		ui.Fail(opt.Err, "serve: "+err.Error())
		return 1
	}
	return 0
}

func doPoll(cfg *config.Config, opt Options) int {
	logger, err := logging.New(opt.Err, cfg.Log.Level, false)
	if err != nil {
		ui.Fail(opt.Err, "log: "+err.Error())
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		ui.Fail(opt.Err, "store: "+err.Error())
		return 1
	}
	defer st.Close()

	if err := newPoller(st, cfg, logger).PollAll(ctx, appIDs()); err != nil {
		ui.Fail(opt.Err, "poll: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "polled "+fmt.Sprint(len(model.Apps))+" apps into "+cfg.Server.DBPath)
	return 0
}
