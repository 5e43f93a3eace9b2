package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/agenda/internal/countdown"
)

// fireMsg delivers a scheduled callback back onto the Update loop.
type fireMsg struct{ ticket uint64 }

// scheduler implements countdown.Scheduler on top of tea.Tick. Callbacks
// only ever run inside Update, and a cancelled ticket is dropped on arrival,
// so a stale tick cannot land after the timer's state moved on.
type scheduler struct {
	next    uint64
	live    map[uint64]func()
	pending []tea.Cmd
}

var _ countdown.Scheduler = (*scheduler)(nil)

func newScheduler() *scheduler {
	return &scheduler{live: make(map[uint64]func())}
}

func (s *scheduler) After(d time.Duration, fn func()) countdown.Cancel {
	s.next++
	ticket := s.next
	s.live[ticket] = fn
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return fireMsg{ticket: ticket}
	}))
	return func() { delete(s.live, ticket) }
}

// fire runs the callback for ticket unless it was cancelled.
func (s *scheduler) fire(ticket uint64) bool {
	fn, ok := s.live[ticket]
	if !ok {
		return false
	}
	delete(s.live, ticket)
	fn()
	return true
}

// drain hands the ticks scheduled during this Update to the runtime.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *scheduler) outstanding() int { return len(s.live) }
