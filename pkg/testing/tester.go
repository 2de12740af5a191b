package testing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	dterrors "github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/host"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/storage"
	"github.com/go-drift/dtkit/pkg/theme"
)

// ErrSettleTimeout is returned when Settle exceeds its timeout.
var ErrSettleTimeout = errors.New("Settle timed out: timers still pending")

// Options configures a Tester. The zero value is ready to use.
type Options struct {
	// Store backs the theme manager. Nil uses a fresh in-memory store.
	Store storage.KV
	// Theme is the default theme when the store is empty.
	Theme         theme.Brightness
	Timing        core.Timing
	ReentrancyCap int
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
}

// Mountable is anything a Tester can mount, usually a component embedding
// *core.Instance.
type Mountable interface {
	Mount(parent *dom.Node) error
}

// Tester runs components against an isolated runtime driven by a fake
// clock. Every error, panic and diagnostic lands in a Recorder instead of
// the log.
type Tester struct {
	rt    *core.Runtime
	loop  *host.Loop
	clock *FakeClock
	errs  *dterrors.Recorder
	store storage.KV
}

// NewTester creates a tester. Call Cleanup when done, or use
// NewTesterWithT instead.
func NewTester(opts Options) *Tester {
	clk := NewFakeClock()
	rec := dterrors.NewRecorder()
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	loop := host.NewLoop(host.Options{Clock: clk, Errors: rec})
	ctx := context.Background()
	tm := theme.NewManager(ctx, theme.Options{
		Store:   opts.Store,
		Default: opts.Theme,
		Errors:  rec,
		Logger:  opts.Logger,
	})
	rt := core.NewRuntime(ctx, core.Options{
		Loop:          loop,
		Theme:         tm,
		Errors:        rec,
		Logger:        opts.Logger,
		ReentrancyCap: opts.ReentrancyCap,
		Timing:        opts.Timing,
	})
	return &Tester{rt: rt, loop: loop, clock: clk, errs: rec, store: opts.Store}
}

// NewTesterWithT creates a tester that tears down via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...Options) *Tester {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	tester := NewTester(o)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts everything still mounted.
func (t *Tester) Cleanup() {
	t.rt.Teardown()
	t.loop.Flush()
}

// Runtime returns the runtime components are created on.
func (t *Tester) Runtime() *core.Runtime { return t.rt }

// Clock returns the fake clock.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Loop returns the host loop.
func (t *Tester) Loop() *host.Loop { return t.loop }

// Errors returns the recorder every report goes to.
func (t *Tester) Errors() *dterrors.Recorder { return t.errs }

// Store returns the theme store.
func (t *Tester) Store() storage.KV { return t.store }

// Document returns the document root.
func (t *Tester) Document() *dom.Node { return t.rt.Document().Root() }

// Body returns the node components are mounted under by default.
func (t *Tester) Body() *dom.Node { return t.rt.Document().Body() }

// Mount mounts c under the body and runs all due work.
func (t *Tester) Mount(c Mountable) error {
	return t.MountUnder(t.Body(), c)
}

// MountUnder mounts c under parent and runs all due work.
func (t *Tester) MountUnder(parent *dom.Node, c Mountable) error {
	if err := c.Mount(parent); err != nil {
		return err
	}
	t.Pump()
	return nil
}

// Pump runs every due microtask, task and timer. It returns the number of
// callbacks run.
func (t *Tester) Pump() int {
	return t.loop.Flush()
}

// Advance moves the fake clock forward by d, firing timers in deadline
// order on the way.
func (t *Tester) Advance(d time.Duration) {
	t.loop.Advance(t.clock, d)
}

// Settle advances from deadline to deadline until no timers remain. It
// returns ErrSettleTimeout if timers are still pending after timeout.
func (t *Tester) Settle(timeout time.Duration) error {
	limit := t.clock.Now().Add(timeout)
	t.Pump()
	for {
		next, ok := t.loop.NextDeadline()
		if !ok {
			return nil
		}
		if next.After(limit) {
			return ErrSettleTimeout
		}
		t.Advance(next.Sub(t.clock.Now()))
	}
}

// Find evaluates a finder against the whole document.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(t.Document()), finder: finder}
}

// Click dispatches a click on the first node matched by finder.
func (t *Tester) Click(finder Finder) error {
	n, err := t.target("Click", finder)
	if err != nil {
		return err
	}
	t.ClickNode(n)
	return nil
}

// ClickNode dispatches a click on n.
func (t *Tester) ClickNode(n *dom.Node) {
	t.dispatch(n, dom.NewEvent(dom.EventClick))
}

// PressKey dispatches a keydown for key on the focused node, or on the body
// when nothing has focus.
func (t *Tester) PressKey(key string) {
	target := t.rt.Focus().Focused()
	if target == nil {
		target = t.Body()
	}
	t.dispatch(target, dom.KeyEvent(key))
}

// PressKeyOn dispatches a keydown for key on the first node matched by
// finder.
func (t *Tester) PressKeyOn(finder Finder, key string) error {
	n, err := t.target("PressKeyOn", finder)
	if err != nil {
		return err
	}
	t.dispatch(n, dom.KeyEvent(key))
	return nil
}

// Hover dispatches mouseenter on the first node matched by finder.
func (t *Tester) Hover(finder Finder) error {
	return t.send("Hover", finder, dom.EventMouseEnter, false)
}

// Unhover dispatches mouseleave on the first node matched by finder.
func (t *Tester) Unhover(finder Finder) error {
	return t.send("Unhover", finder, dom.EventMouseLeave, false)
}

// Touch dispatches touchstart on the first node matched by finder.
func (t *Tester) Touch(finder Finder) error {
	return t.send("Touch", finder, dom.EventTouchStart, true)
}

// FocusOn moves focus to the first node matched by finder.
func (t *Tester) FocusOn(finder Finder) error {
	n, err := t.target("FocusOn", finder)
	if err != nil {
		return err
	}
	if !t.rt.Focus().RequestFocus(n) {
		return fmt.Errorf("FocusOn: node cannot receive focus: %s", finder.Description())
	}
	t.Pump()
	return nil
}

// Focused returns the focused node.
func (t *Tester) Focused() *dom.Node {
	return t.rt.Focus().Focused()
}

func (t *Tester) send(op string, finder Finder, typ string, bubbles bool) error {
	n, err := t.target(op, finder)
	if err != nil {
		return err
	}
	ev := dom.NewEvent(typ)
	ev.Bubbles = bubbles
	t.dispatch(n, ev)
	return nil
}

func (t *Tester) target(op string, finder Finder) (*dom.Node, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return nil, fmt.Errorf("%s: finder matched no nodes: %s", op, finder.Description())
	}
	return result.First(), nil
}

func (t *Tester) dispatch(n *dom.Node, ev *dom.Event) {
	n.Dispatch(ev)
	t.Pump()
}
