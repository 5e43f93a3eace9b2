package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Pending                                string
	SymRunning, SymPaused, SymDone         string
	BarFill, BarTrack                      string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = classic()

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			SymRunning: "▶", SymPaused: "⏸", SymDone: "◼",
			BarFill: "▰", BarTrack: "▱",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:  "mono",
			Title: "", Muted: "", Accent: "", Success: "", Error: "", Pending: "",
			SymRunning: ">", SymPaused: "=", SymDone: "x",
			BarFill: "#", BarTrack: "-",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		SymRunning: "▶", SymPaused: "⏸", SymDone: "✔",
		BarFill: "█", BarTrack: "░",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

// Expose what renderers need
func Current() Theme { return current }
