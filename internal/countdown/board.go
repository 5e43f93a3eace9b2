package countdown

import "github.com/idilsaglam/agenda/internal/model"

// Board owns the timers generated from one agenda snapshot.
type Board struct {
	deps   Deps
	opts   Options
	timers []*Timer
}

func NewBoard(deps Deps, opts Options) *Board {
	return &Board{deps: deps.withDefaults(), opts: opts}
}

// Generate discards the current timers and creates one stopped timer per entry.
func (b *Board) Generate(entries []model.Entry) []*Timer {
	b.closeTimers()
	b.timers = make([]*Timer, 0, len(entries))
	for _, e := range entries {
		b.timers = append(b.timers, New(e, b.deps, b.opts))
	}
	return b.Timers()
}

func (b *Board) Timers() []*Timer {
	out := make([]*Timer, len(b.timers))
	copy(out, b.timers)
	return out
}

func (b *Board) Len() int { return len(b.timers) }

func (b *Board) Get(i int) (*Timer, bool) {
	if i < 0 || i >= len(b.timers) {
		return nil, false
	}
	return b.timers[i], true
}

// Close tears the board down and restores the window title.
func (b *Board) Close() {
	b.closeTimers()
	b.timers = nil
	b.deps.Presenter.RestoreTitle()
}

func (b *Board) closeTimers() {
	for _, t := range b.timers {
		t.Close()
	}
}
