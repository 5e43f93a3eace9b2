package countdown

import (
	"time"

	"github.com/idilsaglam/agenda/internal/notify"
)

// Cancel revokes a scheduled callback. Calling it after the callback ran,
// or more than once, is a no-op.
type Cancel func()

// Scheduler runs fn once after d on the same event loop that drives the
// timer. Implementations must guarantee that a cancelled callback never runs.
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
}

// Presenter is the presentation side-effect port: window title and alarm.
type Presenter interface {
	SetTitle(title string)
	RestoreTitle()
	PlayAlarm() error
}

// Notifier shows system notifications. The engine only consults the
// permission; asking for it belongs to the UI.
type Notifier interface {
	Permission() notify.Permission
	Notify(n notify.Notification) error
}

// Recorder receives human-readable history lines.
type Recorder interface {
	Append(action string) error
}

type nopPresenter struct{}

func (nopPresenter) SetTitle(string)  {}
func (nopPresenter) RestoreTitle()    {}
func (nopPresenter) PlayAlarm() error { return nil }

type nopNotifier struct{}

func (nopNotifier) Permission() notify.Permission    { return notify.Denied }
func (nopNotifier) Notify(notify.Notification) error { return nil }

type nopRecorder struct{}

func (nopRecorder) Append(string) error { return nil }
