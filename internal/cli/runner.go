package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/idilsaglam/reviews/internal/config"
	"github.com/idilsaglam/reviews/internal/model"
	"github.com/idilsaglam/reviews/internal/ui"
)

// Options carry root flags and output streams.
type Options struct {
	ConfigPath string
	Theme      string // overrides the configured theme when set
	Out        io.Writer
	Err        io.Writer
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()

	cmd, a := "browse", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0
	case "browse", "ls", "apps", "export", "serve", "poll", "config":
	default:
		ui.Fail(opt.Err, "unknown subcommand: "+cmd)
		fmt.Fprintln(opt.Err)
		PrintHelp(opt.Err)
		return 2
	}

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail(opt.Err, "config: "+err.Error())
		return 1
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	ui.SetTheme(cfg.Theme)

	switch cmd {
	case "browse":
		if len(a) != 0 {
			ui.Fail(opt.Err, "usage: reviews browse")
			return 2
		}
		return doBrowse(cfg, opt)

	case "ls":
		if len(a) > 1 {
			ui.Fail(opt.Err, "usage: reviews ls [app]")
			return 2
		}
		key := cfg.DefaultApp
		if len(a) == 1 {
			key = a[0]
		}
		app, ok := resolveApp(opt, key)
		if !ok {
			return 2
		}
		return doList(cfg, opt, app)

	case "apps":
		return doApps(cfg, opt)

	case "export":
		if len(a) != 2 {
			ui.Fail(opt.Err, "usage: reviews export <app> <file>")
			return 2
		}
		app, ok := resolveApp(opt, a[0])
		if !ok {
			return 2
		}
		return doExport(cfg, opt, app, a[1])

	case "serve":
		return doServe(cfg, opt, a)

	case "poll":
		return doPoll(cfg, opt)

	default: // config
		return doConfig(cfg, opt)
	}
}

func resolveApp(opt Options, key string) (model.AppDescriptor, bool) {
	app, ok := model.Lookup(model.Apps, key)
	if !ok {
		ui.Fail(opt.Err, "unknown app: "+key)
		fmt.Fprintln(opt.Err, ui.C(ui.Current().Muted, "Hint: run `reviews apps` to see the catalog"))
	}
	return app, ok
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `reviews - browse recent App Store reviews

Usage:
  reviews [flags] [subcommand] [args]

Subcommands:
  browse                      Interactive browser (default)
  ls [app]                    Print the reviews of an app
  apps                        List the app catalog
  export <app> <file>         Write an app's reviews to a JSON file
  serve [--seed f] [--no-poll]
                              Run the review service
  poll                        Fetch the App Store feed once into the database
  config                      Print the effective configuration

Flags:
  --config <file>   config file (default %s)
  --theme <name>    classic, neon or mono
  --no-color        disable colors
  --force-color     keep colors when not writing to a terminal

Apps may be given by id or name:
  reviews ls "door dash"
  reviews export 544007664 youtube.json
`, config.Dir()+"/config.yaml")
}
