package countdown

import (
	"errors"
	"sort"
	"time"

	"github.com/idilsaglam/agenda/internal/notify"
)

// manualScheduler is a virtual clock. Callbacks run synchronously inside
// Advance, in due order, which mirrors a single-threaded event loop.
type manualScheduler struct {
	now  time.Duration
	seq  int
	jobs []*job
}

type job struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

func (s *manualScheduler) After(d time.Duration, fn func()) Cancel {
	s.seq++
	j := &job{at: s.now + d, seq: s.seq, fn: fn}
	s.jobs = append(s.jobs, j)
	return func() { j.cancelled = true }
}

func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.next(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fn()
	}
	s.now = target
}

func (s *manualScheduler) next(limit time.Duration) *job {
	live := s.jobs[:0]
	for _, j := range s.jobs {
		if !j.cancelled {
			live = append(live, j)
		}
	}
	s.jobs = live
	sort.Slice(s.jobs, func(a, b int) bool {
		if s.jobs[a].at != s.jobs[b].at {
			return s.jobs[a].at < s.jobs[b].at
		}
		return s.jobs[a].seq < s.jobs[b].seq
	})
	if len(s.jobs) == 0 || s.jobs[0].at > limit {
		return nil
	}
	j := s.jobs[0]
	s.jobs = s.jobs[1:]
	return j
}

func (s *manualScheduler) Pending() int {
	n := 0
	for _, j := range s.jobs {
		if !j.cancelled {
			n++
		}
	}
	return n
}

type fakePresenter struct {
	title    string
	titles   []string
	restores int
	alarms   int
	alarmErr error
}

func (p *fakePresenter) SetTitle(s string) { p.title = s; p.titles = append(p.titles, s) }
func (p *fakePresenter) RestoreTitle()     { p.title = ""; p.restores++ }
func (p *fakePresenter) PlayAlarm() error  { p.alarms++; return p.alarmErr }

type fakeNotifier struct {
	perm notify.Permission
	sent []notify.Notification
	err  error
}

func (n *fakeNotifier) Permission() notify.Permission { return n.perm }
func (n *fakeNotifier) Notify(x notify.Notification) error {
	n.sent = append(n.sent, x)
	return n.err
}

type fakeRecorder struct {
	actions []string
	err     error
}

func (r *fakeRecorder) Append(a string) error {
	r.actions = append(r.actions, a)
	return r.err
}

var errBlocked = errors.New("blocked")

type harness struct {
	sched    *manualScheduler
	present  *fakePresenter
	notifier *fakeNotifier
	rec      *fakeRecorder
	deps     Deps
}

func newHarness() *harness {
	h := &harness{
		sched:    &manualScheduler{},
		present:  &fakePresenter{},
		notifier: &fakeNotifier{perm: notify.Granted},
		rec:      &fakeRecorder{},
	}
	h.deps = Deps{Scheduler: h.sched, Presenter: h.present, Notifier: h.notifier, Recorder: h.rec}
	return h
}
