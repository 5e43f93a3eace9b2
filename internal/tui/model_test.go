package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/agenda/internal/agenda"
	"github.com/idilsaglam/agenda/internal/countdown"
	"github.com/idilsaglam/agenda/internal/history"
	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/notify"
	"github.com/idilsaglam/agenda/internal/store"
	"github.com/idilsaglam/agenda/internal/store/memstore"
)

type fakeSender struct{ sent []notify.Notification }

func (f *fakeSender) Send(_ context.Context, n notify.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type fakePlayer struct{ plays int }

func (f *fakePlayer) Play(context.Context) error { f.plays++; return nil }

type fixture struct {
	store *memstore.Store
	log   *history.Log
	book  *agenda.Book
	m     Model
}

func newFixture(t *testing.T, perm notify.Permission, items ...model.AgendaItem) *fixture {
	t.Helper()
	s := memstore.New()
	log, err := history.Open(s)
	require.NoError(t, err)
	book, err := agenda.Open(s, log, nil)
	require.NoError(t, err)
	if len(items) > 0 {
		require.NoError(t, book.Replace(items))
	}
	m := New(Deps{
		Book:         book,
		History:      log,
		Gate:         notify.NewGate(perm),
		Desktop:      &fakeSender{},
		Alarm:        &fakePlayer{},
		Timer:        countdown.DefaultOptions(),
		ExtendSmall:  time.Minute,
		ExtendLarge:  5 * time.Minute,
		DefaultTitle: "agenda",
	})
	return &fixture{store: s, log: log, book: book, m: m}
}

func (f *fixture) send(t *testing.T, msgs ...tea.Msg) {
	t.Helper()
	for _, msg := range msgs {
		next, _ := f.m.Update(msg)
		f.m = next.(Model)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func typeText(s string) []tea.Msg {
	var out []tea.Msg
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

// tickAll delivers every outstanding scheduled callback once.
func (f *fixture) tickAll(t *testing.T) {
	t.Helper()
	var tickets []uint64
	for ticket := range f.m.sched.live {
		tickets = append(tickets, ticket)
	}
	for _, ticket := range tickets {
		f.send(t, fireMsg{ticket: ticket})
	}
}

func TestAddTopicThroughPrompt(t *testing.T) {
	f := newFixture(t, notify.Granted)

	f.send(t, runes("a"))
	f.send(t, typeText("Retro")...)
	f.send(t, enter)
	f.send(t, tea.KeyMsg{Type: tea.KeyBackspace}, runes("-"), runes("3"), enter) // minutes "-3"
	f.send(t, tea.KeyMsg{Type: tea.KeyBackspace}, runes("7"), runes("5"), enter) // seconds "75"

	require.Equal(t, 1, f.book.Len())
	assert.Equal(t, model.AgendaItem{Topic: "Retro", Minutes: 0, Seconds: 59}, f.book.Items()[0])
	assert.False(t, f.m.editor.prompting)

	var persisted []model.AgendaItem
	require.NoError(t, f.store.Load(store.AgendaKey, &persisted))
	assert.Len(t, persisted, 1)
}

func TestPromptRejectsBadInput(t *testing.T) {
	f := newFixture(t, notify.Granted)

	f.send(t, runes("a"), enter)
	assert.True(t, f.m.editor.prompting)
	assert.NotEmpty(t, f.m.editor.err)

	f.send(t, typeText("Demo")...)
	f.send(t, enter, tea.KeyMsg{Type: tea.KeyBackspace}, runes("x"), enter)
	assert.True(t, f.m.editor.prompting)
	assert.Contains(t, f.m.editor.err, "not a number")

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, f.m.editor.prompting)
	assert.Zero(t, f.book.Len())
}

func TestDeleteAndUndo(t *testing.T) {
	f := newFixture(t, notify.Granted,
		model.AgendaItem{Topic: "A", Minutes: 1},
		model.AgendaItem{Topic: "B", Minutes: 2},
	)

	f.send(t, runes("d"))
	assert.Equal(t, []string{"B"}, topics(f.book))
	f.send(t, runes("u"))
	assert.Equal(t, []string{"A", "B"}, topics(f.book))
}

func TestGenerateAndRunTimer(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Seconds: 2})

	f.send(t, runes("g"))
	require.Len(t, f.m.Timers(), 1)
	assert.Equal(t, viewTimers, f.m.view)
	assert.Equal(t, "Generated 1 timers", f.log.Entries()[0].Action)

	f.send(t, space)
	assert.True(t, f.m.Timers()[0].Running)
	assert.Equal(t, 1, f.m.sched.outstanding())

	f.tickAll(t)
	assert.Equal(t, 1, f.m.Timers()[0].Remaining)
	f.tickAll(t)

	st := f.m.Timers()[0]
	assert.Equal(t, 0, st.Remaining)
	assert.False(t, st.Running)
	require.NotNil(t, f.m.fx.banner)
	assert.Equal(t, countdown.DefaultOptions().AlertTitle, f.m.fx.title)
	assert.Contains(t, f.log.Entries()[0].Action, `Time's up for "Intro"`)

	// acknowledging the in-app notification restores the title
	f.send(t, runes("n"))
	assert.Nil(t, f.m.fx.banner)
	assert.Equal(t, "agenda", f.m.fx.title)
}

func TestCancelledTicketIsDropped(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Minutes: 1})
	f.send(t, runes("g"), space)

	var stale uint64
	for ticket := range f.m.sched.live {
		stale = ticket
	}
	f.send(t, space) // pause
	assert.Zero(t, f.m.sched.outstanding())

	f.send(t, fireMsg{ticket: stale})
	assert.Equal(t, 60, f.m.Timers()[0].Remaining)
}

func TestBoardExtendResetZero(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Minutes: 1})
	f.send(t, runes("g"))

	f.send(t, runes("+"), runes(">"))
	st := f.m.Timers()[0]
	assert.Equal(t, 60+60+300, st.Remaining)
	assert.Equal(t, 360, st.Extension)

	f.send(t, runes("r"))
	st = f.m.Timers()[0]
	assert.Equal(t, 60, st.Remaining)
	assert.Zero(t, st.Extension)
	assert.Equal(t, `Reset "Intro" (extended 6 min)`, f.log.Entries()[0].Action)

	f.send(t, runes("z"))
	st = f.m.Timers()[0]
	assert.Zero(t, st.Remaining)
	assert.True(t, st.Suppressed)
	assert.Nil(t, f.m.fx.banner)

	// the suppress window elapses
	f.tickAll(t)
	assert.False(t, f.m.Timers()[0].Suppressed)
}

func TestPermissionPromptAskedOnce(t *testing.T) {
	f := newFixture(t, notify.Undecided)
	assert.True(t, f.m.prompt)

	f.send(t, runes("a")) // ignored while the prompt is up
	assert.False(t, f.m.editor.prompting)

	f.send(t, runes("y"))
	assert.False(t, f.m.prompt)
	assert.Equal(t, notify.Granted, f.m.gate.Permission())
	assert.False(t, f.m.gate.NeedsPrompt())
}

func TestDeniedPermissionSkipsNotification(t *testing.T) {
	f := newFixture(t, notify.Undecided, model.AgendaItem{Topic: "Intro", Seconds: 1})
	f.send(t, runes("n"))
	require.Equal(t, notify.Denied, f.m.gate.Permission())

	f.send(t, runes("g"), space)
	f.tickAll(t)
	assert.Nil(t, f.m.fx.banner)
	assert.Contains(t, f.log.Entries()[0].Action, "Time's up")
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "A", Minutes: 1})
	require.NotZero(t, f.log.Len())

	f.send(t, runes("C"))
	assert.Zero(t, f.log.Len())
	_, ok := f.store.Raw(store.HistoryKey)
	assert.False(t, ok)
}

func TestExternalAgendaChangeReloads(t *testing.T) {
	f := newFixture(t, notify.Granted)
	require.NoError(t, f.store.Save(store.AgendaKey, []model.AgendaItem{{Topic: "From CLI", Minutes: 3}}))

	f.send(t, agendaChangedMsg{})
	assert.Equal(t, []string{"From CLI"}, topics(f.book))
	assert.Len(t, f.m.editor.list.Items(), 1)
}

func TestQuitRestoresTitle(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Seconds: 1})
	f.send(t, runes("g"), space)
	f.tickAll(t)
	require.NotEqual(t, "agenda", f.m.fx.title)

	next, cmd := f.m.Update(runes("q"))
	f.m = next.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, f.m.quitting)
	assert.Equal(t, "agenda", f.m.fx.title)
	assert.Zero(t, f.m.sched.outstanding())
	assert.Empty(t, f.m.View())
}

func TestQuitWhilePermissionPromptIsOpen(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, runes("q")} {
		f := newFixture(t, notify.Undecided)
		require.True(t, f.m.prompt)

		f.send(t, k)
		assert.True(t, f.m.quitting, k.String())
		assert.Equal(t, notify.Undecided, f.m.gate.Permission(), k.String())
		assert.False(t, f.m.gate.NeedsPrompt(), k.String())
	}
}

func TestShutdownRestoresTitle(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Seconds: 1})
	f.send(t, runes("g"), space)
	f.tickAll(t)
	require.NotEqual(t, "agenda", f.m.fx.title)

	f.send(t, shutdownMsg{})
	assert.True(t, f.m.quitting)
	assert.Equal(t, "agenda", f.m.fx.title)
	assert.Zero(t, f.m.sched.outstanding())
}

func TestAgendaChangeDuringPromptIsKept(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "A", Minutes: 1})

	f.send(t, runes("a"))
	f.send(t, typeText("New")...)
	require.NoError(t, f.store.Save(store.AgendaKey, []model.AgendaItem{
		{Topic: "A", Minutes: 1},
		{Topic: "From CLI", Minutes: 2},
	}))
	f.send(t, agendaChangedMsg{})
	assert.True(t, f.m.editor.prompting)
	assert.True(t, f.m.syncPending)

	f.send(t, enter, enter, enter)
	assert.False(t, f.m.editor.prompting)
	assert.False(t, f.m.syncPending)
	assert.Equal(t, []string{"A", "New", "From CLI"}, topics(f.book))
	assert.Len(t, f.m.editor.list.Items(), 3)

	var persisted []model.AgendaItem
	require.NoError(t, f.store.Load(store.AgendaKey, &persisted))
	assert.Len(t, persisted, 3)
}

func TestExternalHistoryChangeReloads(t *testing.T) {
	f := newFixture(t, notify.Granted)
	entries := append([]model.HistoryEntry{{Timestamp: "10:00:00", Action: `Added topic "X" (1:00)`}}, f.log.Entries()...)
	require.NoError(t, f.store.Save(store.HistoryKey, entries))

	f.send(t, historyChangedMsg{})
	assert.Equal(t, entries, f.log.Entries())
}

func TestViewRenders(t *testing.T) {
	f := newFixture(t, notify.Granted, model.AgendaItem{Topic: "Intro", Minutes: 5})
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, f.m.View(), "Intro")

	f.send(t, runes("g"))
	out := f.m.View()
	assert.Contains(t, out, "Timers")
	assert.Contains(t, out, "5:00")
	assert.Contains(t, out, "History")

	f.send(t, tab)
	assert.Equal(t, viewAgenda, f.m.view)
}

func topics(b *agenda.Book) []string {
	var out []string
	for _, it := range b.Items() {
		out = append(out, it.Topic)
	}
	return out
}
