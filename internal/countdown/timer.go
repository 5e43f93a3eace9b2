// Package countdown implements the per-topic countdown timers: one-second
// ticking, extension and reset policy, and completion side effects.
//
// A Timer is confined to one event loop. Every transition that can change
// whether or when the next tick fires first cancels the outstanding tick
// and then schedules at most one new one, so a stale tick can never land
// after the state has moved on.
package countdown

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/notify"
)

var ErrInvalidExtension = errors.New("countdown: extension must be positive")

// Options tune timing and the completion presentation.
type Options struct {
	// Tick is the wall time per decrement. Anything but one second only
	// makes sense under a fake scheduler.
	Tick           time.Duration
	SuppressWindow time.Duration
	AlertTitle     string
	Icon           string
}

func DefaultOptions() Options {
	return Options{
		Tick:           time.Second,
		SuppressWindow: time.Second,
		AlertTitle:     "⏰ Time's up!",
	}
}

// Deps are the ports a timer reports to. Scheduler is required; the other
// ports fall back to no-ops.
type Deps struct {
	Scheduler Scheduler
	Presenter Presenter
	Notifier  Notifier
	Recorder  Recorder
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Presenter == nil {
		d.Presenter = nopPresenter{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// State is a read-only view of a timer.
type State struct {
	ID         string
	Topic      string
	Initial    int
	Remaining  int
	Running    bool
	Suppressed bool
	Extension  int
}

type Timer struct {
	id      string
	topic   string
	initial int

	remaining  int
	running    bool
	suppressed bool
	extension  int

	cancelTick     Cancel
	cancelSuppress Cancel

	deps Deps
	opts Options
	log  *slog.Logger
}

// New creates a stopped timer for entry. Negative durations are treated as zero.
func New(entry model.Entry, deps Deps, opts Options) *Timer {
	if deps.Scheduler == nil {
		panic("countdown: nil scheduler")
	}
	deps = deps.withDefaults()
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.SuppressWindow <= 0 {
		opts.SuppressWindow = time.Second
	}
	initial := max(entry.Seconds, 0)
	id := uuid.NewString()
	return &Timer{
		id:        id,
		topic:     entry.Topic,
		initial:   initial,
		remaining: initial,
		deps:      deps,
		opts:      opts,
		log:       deps.Logger.With("timer", id, "topic", entry.Topic),
	}
}

func (t *Timer) ID() string    { return t.id }
func (t *Timer) Topic() string { return t.topic }

func (t *Timer) Snapshot() State {
	return State{
		ID:         t.id,
		Topic:      t.topic,
		Initial:    t.initial,
		Remaining:  t.remaining,
		Running:    t.running,
		Suppressed: t.suppressed,
		Extension:  t.extension,
	}
}

// Start begins counting down. A timer with nothing left stays stopped.
func (t *Timer) Start() {
	if t.running || t.remaining == 0 {
		return
	}
	t.running = true
	t.record(fmt.Sprintf("Started %q at %s", t.topic, model.Clock(t.remaining)))
	t.reschedule()
}

func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.running = false
	t.record(fmt.Sprintf("Paused %q at %s", t.topic, model.Clock(t.remaining)))
	t.reschedule()
}

func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
	} else {
		t.Start()
	}
}

// Extend adds delta seconds. It is deliberately silent in the history; the
// accrued total is reported by the next reset, forced stop or completion.
func (t *Timer) Extend(delta int) error {
	if delta <= 0 {
		return ErrInvalidExtension
	}
	t.remaining += delta
	t.extension += delta
	t.log.Debug("extended", "delta", delta, "total", t.extension)
	t.reschedule()
	return nil
}

// ResetToInitial restores the initial duration and forgets the accrued
// extension. The running flag is left alone.
func (t *Timer) ResetToInitial() {
	extended := t.extension
	t.remaining = t.initial
	t.extension = 0
	if t.remaining == 0 {
		t.running = false
	}
	t.record(fmt.Sprintf("Reset %q (extended %d min)", t.topic, extended/60))
	t.reschedule()
}

// ForceZero stops the timer at 0:00 without treating it as a completion.
// Completion effects stay suppressed for the suppress window; a second
// call within the window restarts it.
func (t *Timer) ForceZero() {
	t.suppressed = true
	t.remaining = 0
	t.running = false
	t.record(fmt.Sprintf("Stopped %q early (extended %d min)", t.topic, t.extension/60))
	t.reschedule()

	if t.cancelSuppress != nil {
		t.cancelSuppress()
	}
	t.cancelSuppress = t.deps.Scheduler.After(t.opts.SuppressWindow, func() {
		t.cancelSuppress = nil
		t.suppressed = false
	})
}

// Close cancels everything the timer has scheduled.
func (t *Timer) Close() {
	t.running = false
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
	if t.cancelSuppress != nil {
		t.cancelSuppress()
		t.cancelSuppress = nil
	}
}

func (t *Timer) reschedule() {
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
	if t.running && t.remaining > 0 {
		t.cancelTick = t.deps.Scheduler.After(t.opts.Tick, t.tick)
	}
}

func (t *Timer) tick() {
	t.cancelTick = nil
	if !t.running || t.remaining == 0 {
		return
	}
	t.remaining--
	if t.remaining > 0 {
		t.reschedule()
		return
	}
	t.running = false
	if t.suppressed {
		t.log.Debug("completion suppressed")
		return
	}
	t.complete()
}

func (t *Timer) complete() {
	t.log.Info("completed", "extension", t.extension)

	t.deps.Presenter.SetTitle(t.opts.AlertTitle)

	if err := t.deps.Presenter.PlayAlarm(); err != nil {
		t.log.Debug("alarm failed", "err", err)
	}

	if t.deps.Notifier.Permission() == notify.Granted {
		n := notify.Notification{
			Title:   t.opts.AlertTitle,
			Body:    fmt.Sprintf("%q is over", t.topic),
			Icon:    t.opts.Icon,
			Tag:     t.id,
			OnClick: t.deps.Presenter.RestoreTitle,
		}
		if err := t.deps.Notifier.Notify(n); err != nil {
			t.log.Debug("notification failed", "err", err)
		}
	}

	t.record(fmt.Sprintf("Time's up for %q (extended %d min)", t.topic, t.extension/60))
}

func (t *Timer) record(action string) {
	if err := t.deps.Recorder.Append(action); err != nil {
		t.log.Warn("history append failed", "err", err)
	}
}
