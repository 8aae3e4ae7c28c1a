package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/reviews/internal/config"
	"github.com/idilsaglam/reviews/internal/logging"
	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/render"
	"github.com/idilsaglam/reviews/internal/reviewapi"
	"github.com/idilsaglam/reviews/internal/store/jsonstore"
	"github.com/idilsaglam/reviews/internal/tui"
	"github.com/idilsaglam/reviews/internal/ui"
)

const listWidth = 76

// fileLogger keeps log lines off the terminal the command is drawing on.
func fileLogger(cfg *config.Config, opt Options) (*zap.SugaredLogger, func(), bool) {
	logger, closeLog, err := logging.File(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		ui.Fail(opt.Err, "log: "+err.Error())
		return nil, nil, false
	}
	return logger, closeLog, true
}

func newClient(cfg *config.Config, logger *zap.SugaredLogger) *reviewapi.Client {
	return reviewapi.NewClient(reviewapi.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	}, logger)
}

func doBrowse(cfg *config.Config, opt Options) int {
	logger, closeLog, ok := fileLogger(cfg, opt)
	if !ok {
		return 1
	}
	defer closeLog()

	err := tui.Run(newClient(cfg, logger), tui.Options{
		Apps:         model.Apps,
		DefaultIndex: cfg.DefaultIndex(),
		Timeout:      cfg.RequestTimeout,
		Logger:       logger,
	})
	if err != nil {
		ui.Fail(opt.Err, "browse: "+err.Error())
		return 1
	}
	return 0
}

func fetch(cfg *config.Config, opt Options, app model.AppDescriptor) ([]model.Review, bool) {
	logger, closeLog, ok := fileLogger(cfg, opt)
	if !ok {
		return nil, false
	}
	defer closeLog()

	reviews, err := newClient(cfg, logger).Reviews(context.Background(), app.ID)
	if err != nil {
		ui.Fail(opt.Err, app.Name+": "+reviewapi.Describe(err))
		fmt.Fprintln(opt.Err, ui.C(ui.Current().Muted, err.Error()))
		return nil, false
	}
	return reviews, true
}

func doList(cfg *config.Config, opt Options, app model.AppDescriptor) int {
	reviews, ok := fetch(cfg, opt, app)
	if !ok {
		return 1
	}

	header := fmt.Sprintf("%s  %s  %s",
		ui.C(ui.Current().Title, app.Name),
		ui.C(ui.Current().Muted, app.ID),
		ui.C(ui.Current().Accent, fmt.Sprintf("%d reviews", len(reviews))),
	)
	lines := []string{header, ""}
	lines = append(lines, strings.Split(render.List(reviews, listWidth), "\n")...)
	ui.Panel(opt.Out, lines)
	return 0
}

func doApps(cfg *config.Config, opt Options) int {
	table := ui.Table(opt.Out, []string{"#", "ID", "Name", "Default"})
	for i, app := range model.Apps {
		mark := ""
		if app.ID == cfg.DefaultApp {
			mark = "*"
		}
		if err := table.Append([]string{fmt.Sprint(i + 1), app.ID, app.Name, mark}); err != nil {
			ui.Fail(opt.Err, "apps: "+err.Error())
			return 1
		}
	}
	if err := table.Render(); err != nil {
		ui.Fail(opt.Err, "apps: "+err.Error())
		return 1
	}
	return 0
}

// doExport adds the app's reviews to the file, keeping other apps already in it.
func doExport(cfg *config.Config, opt Options, app model.AppDescriptor, path string) int {
	reviews, ok := fetch(cfg, opt, app)
	if !ok {
		return 1
	}
	f, err := jsonstore.Load(path)
	if err != nil {
		ui.Fail(opt.Err, "load: "+err.Error())
		return 1
	}
	f[app.ID] = reviews
	if err := jsonstore.Save(path, f); err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, fmt.Sprintf("exported %d %s reviews to %s", len(reviews), app.Name, path))
	return 0
}

func doConfig(cfg *config.Config, opt Options) int {
	enc := yaml.NewEncoder(opt.Out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.Settings()); err != nil {
		ui.Fail(opt.Err, "config: "+err.Error())
		return 1
	}
	if err := enc.Close(); err != nil {
		ui.Fail(opt.Err, "config: "+err.Error())
		return 1
	}
	return 0
}
