// Package tui is the interactive agenda editor and timer board.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/agenda/internal/agenda"
	"github.com/idilsaglam/agenda/internal/countdown"
	"github.com/idilsaglam/agenda/internal/history"
	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/notify"
)

type view int

const (
	viewAgenda view = iota
	viewTimers
)

// historyRows is how many history lines the side pane shows.
const historyRows = 10

// Deps wires the UI to the rest of the application.
type Deps struct {
	Book         *agenda.Book
	History      *history.Log
	Gate         *notify.Gate
	Desktop      Sender
	Alarm        Player
	Logger       *slog.Logger
	Timer        countdown.Options
	ExtendSmall  time.Duration
	ExtendLarge  time.Duration
	DefaultTitle string
	// Changes signals that the agenda was rewritten by another process.
	Changes <-chan struct{}
	// HistoryChanges signals the same for the history log.
	HistoryChanges <-chan struct{}
}

type (
	agendaChangedMsg  struct{}
	historyChangedMsg struct{}
	// shutdownMsg asks the model to tear down and quit, e.g. on SIGTERM.
	shutdownMsg struct{}
)

type Model struct {
	book     *agenda.Book
	log      *history.Log
	gate     *notify.Gate
	logger   *slog.Logger
	changes  <-chan struct{}
	hchanges <-chan struct{}

	sched *scheduler
	fx    *effects
	board *countdown.Board

	view        view
	editor      editor
	cursor      int
	help        help.Model
	keys        boardKeyMap
	extendSmall int
	extendLarge int

	showHistory bool
	prompt      bool // notification permission prompt
	syncPending bool // agenda reloaded while the editor prompt was open
	status      string
	quitting    bool

	width, height int
}

func New(d Deps) Model {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fx := &effects{
		defaultTitle: d.DefaultTitle,
		title:        d.DefaultTitle,
		titleDirty:   true,
		gate:         d.Gate,
		desktop:      d.Desktop,
		alarm:        d.Alarm,
		logger:       logger,
	}
	sched := newScheduler()
	board := countdown.NewBoard(countdown.Deps{
		Scheduler: sched,
		Presenter: fx,
		Notifier:  fx,
		Recorder:  d.History,
		Logger:    logger,
	}, d.Timer)

	small := int(d.ExtendSmall / time.Second)
	large := int(d.ExtendLarge / time.Second)
	return Model{
		book:        d.Book,
		log:         d.History,
		gate:        d.Gate,
		logger:      logger,
		changes:     d.Changes,
		hchanges:    d.HistoryChanges,
		sched:       sched,
		fx:          fx,
		board:       board,
		editor:      newEditor(d.Book),
		help:        help.New(),
		keys:        newBoardKeys(small, large),
		extendSmall: small,
		extendLarge: large,
		showHistory: true,
		prompt:      d.Gate.NeedsPrompt(),
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fx.drain(),
		waitForChange(m.changes, agendaChangedMsg{}),
		waitForChange(m.hchanges, historyChangedMsg{}),
	)
}

// waitForChange blocks on a store watcher and reports one change as msg.
func waitForChange(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msg
	}
}

// Update runs the state transition, then hands everything the transition
// scheduled (ticks, title, alarm, notifications) to the runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if next.syncPending && !next.editor.prompting {
		next.syncPending = false
		next.editor.sync()
	}
	if next.quitting {
		// the title restore must reach the terminal before the program exits
		return next, tea.Sequence(next.fx.drain(), tea.Quit)
	}
	return next, tea.Batch(cmd, next.sched.drain(), next.fx.drain())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.setSize(m.paneWidth(), msg.Height-4)
		return m, nil

	case fireMsg:
		m.sched.fire(msg.ticket)
		return m, nil

	case effectErrMsg:
		m.logger.Debug("side effect failed", "effect", msg.effect, "err", msg.err)
		return m, nil

	case shutdownMsg:
		m.quit()
		return m, nil

	case agendaChangedMsg:
		if err := m.book.Reload(); err != nil {
			m.fail(err)
		}
		// the open prompt keeps its list until it closes
		if m.editor.prompting {
			m.syncPending = true
		} else {
			m.editor.sync()
		}
		return m, waitForChange(m.changes, agendaChangedMsg{})

	case historyChangedMsg:
		if err := m.log.Reload(); err != nil {
			m.fail(err)
		}
		return m, waitForChange(m.hchanges, historyChangedMsg{})

	case tea.KeyMsg:
		if m.prompt {
			if key.Matches(msg, m.keys.Quit) {
				m.gate.Dismiss()
				m.quit()
				return m, nil
			}
			return m.answerPrompt(msg), nil
		}
		return m.handleKey(msg)
	}

	if m.view == viewAgenda {
		cmd, err := m.editor.update(msg)
		if err != nil {
			m.fail(err)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) answerPrompt(k tea.KeyMsg) Model {
	switch strings.ToLower(k.String()) {
	case "y":
		m.gate.Resolve(true)
	case "n":
		m.gate.Resolve(false)
	case "esc":
		m.gate.Dismiss()
	default:
		return m
	}
	m.prompt = false
	m.status = "notifications " + m.gate.Permission().String()
	return m
}

func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	if k.String() == "ctrl+c" {
		m.quit()
		return m, nil
	}
	typing := m.view == viewAgenda && (m.editor.prompting || m.editor.filtering())
	if !typing {
		switch {
		case key.Matches(k, m.keys.Quit):
			m.quit()
			return m, nil
		case key.Matches(k, m.keys.Switch):
			m.view = 1 - m.view
			return m, nil
		case key.Matches(k, m.keys.History):
			m.showHistory = !m.showHistory
			m.editor.setSize(m.paneWidth(), m.height-4)
			return m, nil
		case key.Matches(k, m.keys.Ack):
			if m.fx.acknowledge() {
				return m, nil
			}
		}
	}

	if m.view == viewTimers {
		return m.handleBoardKey(k), nil
	}

	if !typing {
		switch {
		case key.Matches(k, generateBind):
			m.generate()
			return m, nil
		case key.Matches(k, clearBind):
			if err := m.log.Clear(); err != nil {
				m.fail(err)
			} else {
				m.status = "history cleared"
			}
			return m, nil
		}
	}
	cmd, err := m.editor.update(k)
	if err != nil {
		m.fail(err)
	}
	return m, cmd
}

func (m *Model) quit() {
	m.quitting = true
	m.board.Close()
}

func (m *Model) generate() {
	entries := m.book.Entries()
	m.board.Generate(entries)
	m.cursor = 0
	m.view = viewTimers
	if err := m.log.Append(fmt.Sprintf("Generated %d timers", len(entries))); err != nil {
		m.fail(err)
	}
	m.status = ""
}

func (m Model) handleBoardKey(k tea.KeyMsg) Model {
	switch {
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m
	case key.Matches(k, m.keys.Down):
		if m.cursor < m.board.Len()-1 {
			m.cursor++
		}
		return m
	}

	tm, ok := m.board.Get(m.cursor)
	if !ok {
		return m
	}
	switch {
	case key.Matches(k, m.keys.Toggle):
		tm.Toggle()
	case key.Matches(k, m.keys.Reset):
		tm.ResetToInitial()
	case key.Matches(k, m.keys.Zero):
		tm.ForceZero()
	case key.Matches(k, m.keys.ExtendSmall):
		m.extend(tm, m.extendSmall)
	case key.Matches(k, m.keys.ExtendLarge):
		m.extend(tm, m.extendLarge)
	}
	return m
}

func (m *Model) extend(tm *countdown.Timer, seconds int) {
	if err := tm.Extend(seconds); err != nil {
		m.fail(err)
	}
}

func (m *Model) fail(err error) {
	m.logger.Warn("action failed", "err", err)
	m.status = err.Error()
}

func (m Model) paneWidth() int {
	if m.showHistory {
		return max(m.width*3/5, 30)
	}
	return max(m.width-4, 30)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var main string
	if m.view == viewTimers {
		main = boardView(m.board, m.cursor, m.paneWidth(), m.help, m.keys)
	} else {
		main = m.editor.view()
	}
	if m.showHistory {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", m.historyView())
	}

	var footer []string
	if m.prompt {
		footer = append(footer, alertStyle.Render("Show a desktop notification when a timer ends? [y/n]"))
	}
	if b := m.fx.banner; b != nil {
		footer = append(footer, alertStyle.Render(b.Title)+" "+b.Body+mutedStyle.Render("  (n to dismiss)"))
	}
	if m.status != "" {
		footer = append(footer, mutedStyle.Render(m.status))
	}
	if len(footer) > 0 {
		main += "\n" + strings.Join(footer, "\n")
	}
	return panelString(main)
}

func (m Model) historyView() string {
	lines := []string{titleStyle.Render("History")}
	entries := m.log.Entries()
	if len(entries) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	}
	for i, e := range entries {
		if i == historyRows {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("… %d more", len(entries)-historyRows)))
			break
		}
		lines = append(lines, mutedStyle.Render(e.Timestamp)+" "+e.Action)
	}
	return strings.Join(lines, "\n")
}

// Timers exposes the current board state, newest generation only.
func (m Model) Timers() []countdown.State {
	out := make([]countdown.State, 0, m.board.Len())
	for _, t := range m.board.Timers() {
		out = append(out, t.Snapshot())
	}
	return out
}

// Entries returns the agenda rows currently shown.
func (m Model) Entries() []model.AgendaItem { return m.book.Items() }
