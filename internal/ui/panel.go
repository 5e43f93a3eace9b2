package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// VisibleWidth is the number of terminal cells s occupies once colors are removed.
func VisibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// Truncate shortens plain text to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// ProgressBar renders fraction done/total as a bar of width cells with a percentage.
func ProgressBar(done, total, width int) string {
	t := Current()
	if total <= 0 {
		total = 1
	}
	if done < 0 {
		done = 0
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	pct := int(float64(done) / float64(total) * 100)
	if pct > 100 {
		pct = 100
	}
	bar := strings.Repeat(t.BarFill, filled) + strings.Repeat(t.BarTrack, width-filled)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// PanelString draws a framed box using the current theme.
func PanelString(lines []string) string {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := VisibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := VisibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	var b strings.Builder
	b.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		b.WriteString(t.V + " " + pad(ln) + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR + "\n")
	return b.String()
}
