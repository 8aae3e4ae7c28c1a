package ui

import (
	"strings"

	"github.com/fatih/color"
)

// Theme bundles palette and box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   *color.Color
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: color.New(color.Bold), Muted: color.New(color.FgHiBlack), Accent: color.New(color.FgBlue),
		Success: color.New(color.FgGreen), Error: color.New(color.FgRed),
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: color.New(color.FgHiMagenta, color.Bold), Muted: color.New(color.FgHiBlack),
			Accent: color.New(color.FgHiCyan), Success: color.New(color.FgHiGreen), Error: color.New(color.FgHiRed),
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		color.NoColor = true
		current = Theme{
			Name:     "mono",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }
