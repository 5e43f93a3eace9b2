package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/agenda/internal/countdown"
	"github.com/idilsaglam/agenda/internal/notify"
)

// Sender delivers a system notification (notify.Desktop).
type Sender interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Player plays the alarm (notify.Alarm).
type Player interface {
	Play(ctx context.Context) error
}

// effectErrMsg reports a failed best-effort side effect.
type effectErrMsg struct {
	effect string
	err    error
}

// effects is the presenter and notifier the timers report to. Work that
// touches the terminal or other processes is queued as commands so the
// renderer stays the only writer.
type effects struct {
	defaultTitle string
	title        string
	gate         *notify.Gate
	desktop      Sender
	alarm        Player
	logger       *slog.Logger

	// banner is the in-app copy of the last notification, acknowledged with n.
	banner     *notify.Notification
	titleDirty bool
	pending    []tea.Cmd
}

var (
	_ countdown.Presenter = (*effects)(nil)
	_ countdown.Notifier  = (*effects)(nil)
)

func (e *effects) SetTitle(title string) {
	e.title = title
	e.titleDirty = true
}

func (e *effects) RestoreTitle() {
	if e.title == e.defaultTitle {
		return
	}
	e.SetTitle(e.defaultTitle)
}

func (e *effects) PlayAlarm() error {
	if e.alarm == nil {
		return nil
	}
	alarm := e.alarm
	e.pending = append(e.pending, func() tea.Msg {
		if err := alarm.Play(context.Background()); err != nil {
			return effectErrMsg{effect: "alarm", err: err}
		}
		return nil
	})
	return nil
}

func (e *effects) Permission() notify.Permission { return e.gate.Permission() }

func (e *effects) Notify(n notify.Notification) error {
	e.banner = &n
	if e.desktop == nil {
		return nil
	}
	desktop := e.desktop
	e.pending = append(e.pending, func() tea.Msg {
		if err := desktop.Send(context.Background(), n); err != nil {
			return effectErrMsg{effect: "notification", err: err}
		}
		return nil
	})
	return nil
}

// acknowledge is the click on the in-app notification.
func (e *effects) acknowledge() bool {
	if e.banner == nil {
		return false
	}
	b := e.banner
	e.banner = nil
	if b.OnClick != nil {
		b.OnClick()
	}
	return true
}

// drain emits the latest title, if it changed, and the queued side effects.
func (e *effects) drain() tea.Cmd {
	cmds := e.pending
	e.pending = nil
	if e.titleDirty {
		e.titleDirty = false
		cmds = append(cmds, tea.SetWindowTitle(e.title))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
