// Package host provides the single-threaded cooperative event loop the
// runtime runs on: a microtask queue (render coalescing boundary), a
// next-turn task queue, and a deadline-ordered timer heap.
//
// Nothing in the loop runs concurrently. Work is only ever suspended at
// these boundaries, and other callbacks may run before it resumes. Code on
// other goroutines hands work to the loop through Dispatch.
package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/outrigdev/goid"

	"github.com/go-drift/dtkit/pkg/errors"
)

// maxMicrotasksPerDrain bounds a single microtask checkpoint. A queue that
// keeps refilling itself past this point is cut off and reported.
const maxMicrotasksPerDrain = 10000

// maxTurnsPerFlush bounds the task and timer turns one Flush runs. Work that
// keeps posting more work is left queued for the next Flush.
const maxTurnsPerFlush = 1000

// TimerID identifies a timer scheduled with AfterFunc.
type TimerID uint64

type timerEntry struct {
	id        TimerID
	deadline  time.Time
	seq       uint64
	fn        func()
	cancelled bool
}

func timerComparator(a, b any) int {
	ta := a.(*timerEntry)
	tb := b.(*timerEntry)
	switch {
	case ta.deadline.Before(tb.deadline):
		return -1
	case ta.deadline.After(tb.deadline):
		return 1
	case ta.seq < tb.seq:
		return -1
	case ta.seq > tb.seq:
		return 1
	}
	return 0
}

// Options configures a Loop.
type Options struct {
	// Clock supplies the current time. Nil means SystemClock.
	Clock Clock
	// Errors receives panics recovered from callbacks.
	Errors errors.Handler
	// CheckOwner panics when loop methods are called from a goroutine other
	// than the one that first used the loop. Dispatch is always allowed.
	CheckOwner bool
}

// Loop is a cooperative event loop. All methods except Dispatch must be
// called from the loop's goroutine.
type Loop struct {
	clock      Clock
	errs       errors.Handler
	checkOwner bool
	owner      uint64

	microtasks []func()
	tasks      []func()
	timers     *binaryheap.Heap
	live       map[TimerID]*timerEntry
	nextID     TimerID
	seq        uint64
	flushing   bool

	inboxMu sync.Mutex
	inbox   []func()
	wake    chan struct{}
}

// NewLoop creates a loop with the given options.
func NewLoop(opts Options) *Loop {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock:      clock,
		errs:       opts.Errors,
		checkOwner: opts.CheckOwner,
		timers:     binaryheap.NewWith(timerComparator),
		live:       make(map[TimerID]*timerEntry),
		wake:       make(chan struct{}, 1),
	}
}

// Now returns the loop clock's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Clock returns the loop's clock.
func (l *Loop) Clock() Clock {
	return l.clock
}

func (l *Loop) assertOwner(op string) {
	if !l.checkOwner {
		return
	}
	gid := goid.Get()
	if l.owner == 0 {
		l.owner = gid
		return
	}
	if gid != l.owner {
		panic(fmt.Sprintf("host: %s called off the loop goroutine (owner %d, caller %d); use Dispatch", op, l.owner, gid))
	}
}

// QueueMicrotask runs fn at the next microtask checkpoint, before any timer
// or posted task.
func (l *Loop) QueueMicrotask(fn func()) {
	if fn == nil {
		return
	}
	l.assertOwner("QueueMicrotask")
	l.microtasks = append(l.microtasks, fn)
}

// Post runs fn on a later turn, after the current microtask checkpoint.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.assertOwner("Post")
	l.tasks = append(l.tasks, fn)
}

// AfterFunc runs fn once after d has elapsed on the loop clock.
func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID {
	l.assertOwner("AfterFunc")
	if d < 0 {
		d = 0
	}
	l.nextID++
	l.seq++
	entry := &timerEntry{
		id:       l.nextID,
		deadline: l.clock.Now().Add(d),
		seq:      l.seq,
		fn:       fn,
	}
	l.live[entry.id] = entry
	l.timers.Push(entry)
	l.signal()
	return entry.id
}

// CancelTimer stops a pending timer. It reports whether the timer was
// pending; cancelling an unknown, fired or cancelled timer returns false.
func (l *Loop) CancelTimer(id TimerID) bool {
	l.assertOwner("CancelTimer")
	entry, ok := l.live[id]
	if !ok {
		return false
	}
	entry.cancelled = true
	delete(l.live, id)
	return true
}

// PendingTimers returns the number of timers that have neither fired nor
// been cancelled.
func (l *Loop) PendingTimers() int {
	return len(l.live)
}

// Idle reports whether no microtask, task or dispatched callback is queued.
// Pending timers do not count.
func (l *Loop) Idle() bool {
	l.inboxMu.Lock()
	inbox := len(l.inbox)
	l.inboxMu.Unlock()
	return len(l.microtasks) == 0 && len(l.tasks) == 0 && inbox == 0
}

// NextDeadline returns the earliest pending timer deadline.
func (l *Loop) NextDeadline() (time.Time, bool) {
	for !l.timers.Empty() {
		top, _ := l.timers.Peek()
		entry := top.(*timerEntry)
		if entry.cancelled {
			l.timers.Pop()
			continue
		}
		return entry.deadline, true
	}
	return time.Time{}, false
}

// Dispatch schedules fn to run on the loop. It is safe to call from any
// goroutine.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	l.inboxMu.Lock()
	l.inbox = append(l.inbox, fn)
	l.inboxMu.Unlock()
	l.signal()
	return true
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run(op string, fn func()) {
	errors.Guard(l.errs, op, "", fn)
}

// RunMicrotasks drains the microtask queue, including microtasks queued by
// the ones it runs.
func (l *Loop) RunMicrotasks() int {
	ran := 0
	for len(l.microtasks) > 0 {
		if ran >= maxMicrotasksPerDrain {
			errors.ReportDiagnostic(l.errs, &errors.Diagnostic{
				Code:    errors.CodeRenderStorm,
				Op:      "host.Loop.RunMicrotasks",
				Message: fmt.Sprintf("microtask queue still refilling after %d callbacks; deferring the rest", ran),
			})
			l.tasks = append(l.tasks, l.microtasks...)
			l.microtasks = nil
			break
		}
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.run("host.microtask", fn)
		ran++
	}
	return ran
}

// Flush runs everything that is due: microtasks, dispatched callbacks,
// posted tasks and timers whose deadline has passed, each followed by a
// microtask checkpoint, until the loop is quiescent or maxTurnsPerFlush turns
// have run. It returns the number of callbacks run. Nested calls from inside
// a callback return immediately.
func (l *Loop) Flush() int {
	l.assertOwner("Flush")
	if l.flushing {
		return 0
	}
	l.flushing = true
	defer func() { l.flushing = false }()

	ran := l.RunMicrotasks()
	for turns := 0; ; turns++ {
		l.drainInbox()
		if turns >= maxTurnsPerFlush && (len(l.tasks) > 0 || l.due()) {
			errors.ReportDiagnostic(l.errs, &errors.Diagnostic{
				Code:    errors.CodeRenderStorm,
				Op:      "host.Loop.Flush",
				Message: fmt.Sprintf("loop still busy after %d turns; yielding", turns),
			})
			return ran
		}
		if len(l.tasks) > 0 {
			turn := l.tasks
			l.tasks = nil
			for _, fn := range turn {
				l.run("host.task", fn)
				ran++
				ran += l.RunMicrotasks()
			}
			continue
		}
		entry := l.popDue()
		if entry == nil {
			return ran
		}
		l.run("host.timer", entry.fn)
		ran++
		ran += l.RunMicrotasks()
	}
}

func (l *Loop) drainInbox() {
	l.inboxMu.Lock()
	pending := l.inbox
	l.inbox = nil
	l.inboxMu.Unlock()
	l.tasks = append(l.tasks, pending...)
}

// due reports whether a timer deadline has passed.
func (l *Loop) due() bool {
	next, ok := l.NextDeadline()
	return ok && !next.After(l.clock.Now())
}

func (l *Loop) popDue() *timerEntry {
	now := l.clock.Now()
	for !l.timers.Empty() {
		top, _ := l.timers.Peek()
		entry := top.(*timerEntry)
		if entry.cancelled {
			l.timers.Pop()
			continue
		}
		if entry.deadline.After(now) {
			return nil
		}
		l.timers.Pop()
		delete(l.live, entry.id)
		return entry
	}
	return nil
}

// Advance moves clock forward by d, stopping at each timer deadline on the
// way so timers fire in deadline order with the clock reading their
// deadline.
func (l *Loop) Advance(clock SettableClock, d time.Duration) {
	target := clock.Now().Add(d)
	l.Flush()
	for {
		next, ok := l.NextDeadline()
		if !ok || next.After(target) {
			break
		}
		if next.After(clock.Now()) {
			clock.Set(next)
		}
		l.Flush()
	}
	clock.Set(target)
	l.Flush()
}

// Run drives the loop in real time until ctx is done. The calling goroutine
// becomes the loop's owner.
func (l *Loop) Run(ctx context.Context) error {
	l.assertOwner("Run")
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Flush()

		wait := time.Hour
		if next, ok := l.NextDeadline(); ok {
			wait = max(next.Sub(l.clock.Now()), 0)
		}
		if !l.Idle() {
			wait = 0
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timer.C:
		}
	}
}
