package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	assert.Equal(t, "#####-----  50%", ProgressBar(5, 10, 10))
	assert.Equal(t, "----------   0%", ProgressBar(0, 0, 10))
	assert.Equal(t, "########## 100%", ProgressBar(12, 10, 10))
	assert.Equal(t, "-----   0%", ProgressBar(-1, 10, 2))
}

func TestPanelPadsByVisibleWidth(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	out := PanelString([]string{"ab", "\033[31mred\033[0m", "会議"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "+------+", lines[0])
	assert.Equal(t, "| ab   |", lines[1])
	assert.Equal(t, "| 会議 |", lines[3])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Quarterly…", Truncate("Quarterly planning", 10))
	assert.Equal(t, 4, VisibleWidth("\033[1m会議\033[0m"))
}
