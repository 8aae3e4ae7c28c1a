package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/reviews/internal/cli"
	"github.com/idilsaglam/reviews/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (YAML)")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	noColor := flag.Bool("no-color", false, "disable colors")
	forceColor := flag.Bool("force-color", false, "keep colors when output is not a terminal")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ui.SetColorForcing(*forceColor, *noColor)

	code := cli.Run(flag.Args(), cli.Options{
		ConfigPath: *configPath,
		Theme:      *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
