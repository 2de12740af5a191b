// Package render coalesces attribute mutations into render passes.
//
// A Scheduler moves through idle, scheduled and rendering. The first change
// after idle queues one render at the next microtask checkpoint; further
// changes before it runs only update the store the pass will read. Each pass
// builds from the latest snapshot, and a pass whose snapshot is superseded
// while it is being built is discarded instead of committed.
package render

import (
	"fmt"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/errors"
)

// DefaultReentrancyCap is how many render cycles may be triggered from inside
// a render before further cycles are deferred to the next loop turn.
const DefaultReentrancyCap = 3

// State is the scheduler's phase.
type State int

const (
	Idle State = iota
	Scheduled
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Rendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pass is one render attempt.
type Pass struct {
	// Seq increases with every pass the scheduler starts.
	Seq uint64
	// Snapshot is the derived state the pass renders.
	Snapshot attrs.Snapshot
}

// Source supplies the state a pass renders.
type Source interface {
	State() attrs.Snapshot
	Generation() uint64
}

// Loop is the part of the host loop the scheduler needs.
type Loop interface {
	QueueMicrotask(fn func())
	Post(fn func())
}

// BuildFunc builds a pass. It returns the function that applies the result,
// which the scheduler calls only if the pass is still current.
type BuildFunc func(p Pass) (commit func())

// Options configures a Scheduler.
type Options struct {
	Loop      Loop
	Source    Source
	Build     BuildFunc
	Errors    errors.Handler
	Component string
	// ReentrancyCap bounds consecutive re-entrant cycles. Zero means
	// DefaultReentrancyCap.
	ReentrancyCap int
}

// Scheduler batches render requests for one component instance.
type Scheduler struct {
	loop      Loop
	source    Source
	build     BuildFunc
	errs      errors.Handler
	component string
	cap       int

	state     State
	seq       uint64
	epoch     uint64
	pending   bool
	reentrant int
	renders   int
	discarded int
	last      Pass
	hasLast   bool
}

// New creates a scheduler in the idle state.
func New(opts Options) *Scheduler {
	limit := opts.ReentrancyCap
	if limit <= 0 {
		limit = DefaultReentrancyCap
	}
	return &Scheduler{
		loop:      opts.Loop,
		source:    opts.Source,
		build:     opts.Build,
		errs:      opts.Errors,
		component: opts.Component,
		cap:       limit,
	}
}

// State returns the current phase.
func (s *Scheduler) State() State { return s.state }

// RenderCount returns the number of committed passes.
func (s *Scheduler) RenderCount() int { return s.renders }

// Discarded returns the number of passes dropped because their snapshot was
// superseded during the build.
func (s *Scheduler) Discarded() int { return s.discarded }

// LastPass returns the most recently committed pass.
func (s *Scheduler) LastPass() (Pass, bool) { return s.last, s.hasLast }

// Request records that the source changed. From idle it queues a render at
// the next microtask checkpoint; while scheduled it does nothing; while
// rendering it marks the running pass as superseded.
func (s *Scheduler) Request() {
	switch s.state {
	case Idle:
		s.reentrant = 0
		s.schedule(false)
	case Rendering:
		s.pending = true
	}
}

// RenderNow runs a pass synchronously, cancelling any queued one. Used for
// the initial render at mount. Inside a render it behaves like Request.
func (s *Scheduler) RenderNow() {
	if s.state == Rendering {
		s.pending = true
		return
	}
	s.epoch++
	s.reentrant = 0
	s.run()
}

// Stop abandons any queued pass and returns to idle. Requests made after
// Stop schedule normally again.
func (s *Scheduler) Stop() {
	s.epoch++
	s.pending = false
	s.reentrant = 0
	s.state = Idle
}

func (s *Scheduler) schedule(deferred bool) {
	s.state = Scheduled
	epoch := s.epoch
	task := func() {
		if s.epoch != epoch || s.state != Scheduled {
			return
		}
		if deferred {
			s.reentrant = 0
		}
		s.run()
	}
	if deferred {
		s.loop.Post(task)
	} else {
		s.loop.QueueMicrotask(task)
	}
}

func (s *Scheduler) run() {
	s.state = Rendering
	s.pending = false
	s.seq++
	pass := Pass{Seq: s.seq, Snapshot: s.source.State()}
	epoch := s.epoch

	var commit func()
	ok := errors.Guard(s.errs, "render.Scheduler.build", s.component, func() {
		commit = s.build(pass)
	})

	if s.epoch != epoch {
		// Stopped from inside the build.
		return
	}

	stale := s.pending || s.source.Generation() != pass.Snapshot.Generation()
	switch {
	case !ok:
		// Keep the previous subtree.
	case stale:
		s.discarded++
		errors.ReportDiagnostic(s.errs, &errors.Diagnostic{
			Code:      errors.CodeStaleRender,
			Op:        "render.Scheduler.run",
			Component: s.component,
			Message:   fmt.Sprintf("pass %d superseded during build; discarded", pass.Seq),
		})
	default:
		if commit != nil {
			errors.Guard(s.errs, "render.Scheduler.commit", s.component, commit)
		}
		s.renders++
		s.last = pass
		s.hasLast = true
	}

	if s.epoch != epoch {
		return
	}
	if !s.pending && !stale {
		s.state = Idle
		return
	}

	s.pending = false
	s.reentrant++
	if s.reentrant > s.cap {
		errors.ReportDiagnostic(s.errs, &errors.Diagnostic{
			Code:      errors.CodeRenderStorm,
			Op:        "render.Scheduler.run",
			Component: s.component,
			Message:   fmt.Sprintf("%d re-entrant renders; deferring to next turn", s.reentrant-1),
		})
		s.schedule(true)
		return
	}
	s.schedule(false)
}
