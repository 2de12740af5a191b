// Package timer provides one-shot timers owned by a component instance.
//
// A Group holds every timer an instance creates and cancels them all when the
// instance unmounts. A timer whose owner is no longer mounted at its deadline
// is dropped without running.
package timer

import (
	"time"

	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/host"
)

// State is a timer's phase. Fired and Cancelled are terminal.
type State int

const (
	Pending State = iota
	Fired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	default:
		return "cancelled"
	}
}

// Scheduler is the part of the host loop timers run on.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) host.TimerID
	CancelTimer(id host.TimerID) bool
}

// Handle refers to one scheduled action.
type Handle struct {
	id       host.TimerID
	deadline time.Time
	state    State
}

// State returns the timer's phase.
func (h *Handle) State() State {
	if h == nil {
		return Cancelled
	}
	return h.state
}

// Deadline returns when the timer is due.
func (h *Handle) Deadline() time.Time {
	if h == nil {
		return time.Time{}
	}
	return h.deadline
}

// Group owns the timers of one component instance.
type Group struct {
	sched     Scheduler
	errs      errors.Handler
	component string
	alive     func() bool

	pending map[*Handle]struct{}
	dropped int
}

// NewGroup creates a group. alive is checked at each deadline; when it
// reports false the action is dropped. A nil alive always runs.
func NewGroup(sched Scheduler, h errors.Handler, component string, alive func() bool) *Group {
	return &Group{
		sched:     sched,
		errs:      h,
		component: component,
		alive:     alive,
		pending:   make(map[*Handle]struct{}),
	}
}

// After schedules action to run once after d unless cancelled first. If the
// owner is not alive, the returned handle is already cancelled.
func (g *Group) After(d time.Duration, action func()) *Handle {
	h := &Handle{deadline: g.sched.Now().Add(d)}
	if g.alive != nil && !g.alive() {
		h.state = Cancelled
		return h
	}
	g.pending[h] = struct{}{}
	h.id = g.sched.AfterFunc(d, func() { g.fire(h, action) })
	return h
}

func (g *Group) fire(h *Handle, action func()) {
	if h.state != Pending {
		return
	}
	delete(g.pending, h)
	if g.alive != nil && !g.alive() {
		h.state = Cancelled
		g.dropped++
		return
	}
	h.state = Fired
	if action != nil {
		errors.Guard(g.errs, "timer.fire", g.component, action)
	}
}

// Cancel stops h. It reports whether h was pending; cancelling twice or after
// the timer fired is a no-op.
func (g *Group) Cancel(h *Handle) bool {
	if h == nil || h.state != Pending {
		return false
	}
	h.state = Cancelled
	delete(g.pending, h)
	g.sched.CancelTimer(h.id)
	return true
}

// CancelAll cancels every pending timer and returns how many there were.
func (g *Group) CancelAll() int {
	n := 0
	for h := range g.pending {
		if g.Cancel(h) {
			n++
		}
	}
	return n
}

// Pending returns the number of timers that have neither fired nor been
// cancelled.
func (g *Group) Pending() int { return len(g.pending) }

// Dropped returns the number of fires discarded because the owner was gone.
func (g *Group) Dropped() int { return g.dropped }
