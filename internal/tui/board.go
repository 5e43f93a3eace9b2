package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/idilsaglam/agenda/internal/countdown"
	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/ui"
)

type boardKeyMap struct {
	Up, Down, Toggle, Reset, Zero, ExtendSmall, ExtendLarge, Ack, Switch, History, Quit key.Binding
}

func newBoardKeys(small, large int) boardKeyMap {
	return boardKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Zero:        key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "stop at 0:00")),
		ExtendSmall: key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "+"+extendLabel(small))),
		ExtendLarge: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "+"+extendLabel(large))),
		Ack:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "dismiss alert")),
		Switch:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "agenda")),
		History:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func extendLabel(seconds int) string {
	if seconds%60 == 0 {
		return fmt.Sprintf("%d min", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Zero, k.ExtendSmall, k.ExtendLarge, k.Switch, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Reset},
		{k.Zero, k.ExtendSmall, k.ExtendLarge, k.Ack},
		{k.Switch, k.History, k.Quit},
	}
}

// timerRow renders one timer as a single line.
func timerRow(st countdown.State, selected bool, width int) string {
	t := ui.Current()
	var marker, status string
	switch {
	case st.Running:
		marker, status = successStyle.Render(t.SymRunning), successStyle.Render("running")
	case st.Remaining == 0:
		marker, status = errorStyle.Render(t.SymDone), errorStyle.Render("time's up")
	case st.Remaining == st.Initial+st.Extension:
		marker, status = mutedStyle.Render(t.SymPaused), mutedStyle.Render("ready")
	default:
		marker, status = pendingStyle.Render(t.SymPaused), pendingStyle.Render("paused")
	}

	total := st.Initial + st.Extension
	bar := ui.ProgressBar(total-st.Remaining, total, 16)

	topicWidth := max(width-52, 8)
	topic := fmt.Sprintf("%-*s", topicWidth, ui.Truncate(st.Topic, topicWidth))
	if st.Remaining == 0 {
		topic = doneStyle.Render(topic)
	}

	ext := ""
	if st.Extension > 0 {
		ext = pendingStyle.Render(fmt.Sprintf(" +%s", model.Clock(st.Extension)))
	}

	line := fmt.Sprintf("%s %s %s %s %s%s",
		marker, topic, accentStyle.Render(fmt.Sprintf("%6s", model.Clock(st.Remaining))), mutedStyle.Render(bar), status, ext)
	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + line
}

func boardView(b *countdown.Board, cursor, width int, h help.Model, keys boardKeyMap) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Timers")+"   "+mutedStyle.Render(fmt.Sprintf("%d topics", b.Len())))
	lines = append(lines, "")
	if b.Len() == 0 {
		lines = append(lines, mutedStyle.Render("no timers yet: press tab, edit the agenda, then g"))
	}
	for i, tm := range b.Timers() {
		lines = append(lines, timerRow(tm.Snapshot(), i == cursor, width))
	}
	lines = append(lines, "", h.View(keys))
	return strings.Join(lines, "\n")
}
