// Package overlay coordinates open overlays: dropdowns, modals and other
// floating UI.
//
// A Coordinator keeps a registry of open overlays ordered by when they
// opened. Exclusive overlays (dropdown menus) close each other: at most one
// is open per runtime. Non-exclusive overlays (modals) stack. The coordinator
// also owns the document-level Escape and outside-click listeners.
//
// Only the coordinator mutates its registry. Components call RegisterOpen and
// RegisterClose as they open and close; forced closes go through each
// overlay's own Close.
package overlay

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/logging"
)

// Overlay is an open floating element.
type Overlay interface {
	// Close closes the overlay. Implementations call RegisterClose.
	Close() error
	// Contains reports whether target is inside the overlay's region,
	// trigger included.
	Contains(target *dom.Node) bool
}

type tagged interface {
	Tag() string
}

func componentOf(o Overlay) string {
	if t, ok := o.(tagged); ok {
		return t.Tag()
	}
	return fmt.Sprintf("%T", o)
}

type entry struct {
	overlay   Overlay
	openedAt  uint64
	exclusive bool
}

// Options configures a Coordinator.
type Options struct {
	Errors errors.Handler
	Logger *logging.Logger
}

// Coordinator is the per-runtime overlay registry.
type Coordinator struct {
	errs errors.Handler
	log  *logging.Logger

	entries *treemap.Map
	index   map[Overlay]*entry
	next    uint64

	root     *dom.Node
	keyID    dom.ListenerID
	clickID  dom.ListenerID
	watchers []func()
}

// New returns a coordinator with an empty registry.
func New(opts Options) *Coordinator {
	return &Coordinator{
		errs:    opts.Errors,
		log:     opts.Logger,
		entries: treemap.NewWith(utils.UInt64Comparator),
		index:   make(map[Overlay]*entry),
	}
}

// Attach installs the document-wide Escape and outside-click listeners on
// root. Attaching again moves them.
func (c *Coordinator) Attach(root *dom.Node) {
	c.Detach()
	if root == nil {
		return
	}
	c.root = root
	c.keyID = root.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key == "Escape" && c.HandleEscape() {
			ev.PreventDefault()
		}
	}, false)
	c.clickID = root.AddEventListener(dom.EventClick, func(ev *dom.Event) {
		c.HandleOutsideClick(ev.Target)
	}, false)
}

// Detach removes the document listeners.
func (c *Coordinator) Detach() {
	if c.root == nil {
		return
	}
	c.root.RemoveEventListener(c.keyID)
	c.root.RemoveEventListener(c.clickID)
	c.root = nil
}

// OnChange registers fn to run after every registry change.
func (c *Coordinator) OnChange(fn func()) {
	if fn != nil {
		c.watchers = append(c.watchers, fn)
	}
}

func (c *Coordinator) notify() {
	for _, fn := range c.watchers {
		errors.Guard(c.errs, "overlay.OnChange", "", fn)
	}
}

// RegisterOpen records o as open. When exclusive, every other open exclusive
// overlay is closed first, so queries never observe two. Registering an
// overlay that is already open is a no-op.
func (c *Coordinator) RegisterOpen(o Overlay, exclusive bool) {
	if o == nil {
		return
	}
	if _, ok := c.index[o]; ok {
		return
	}
	if exclusive {
		for _, e := range c.snapshot() {
			if e.exclusive && e.overlay != o && c.IsOpen(e.overlay) {
				c.forceClose(e)
			}
		}
	}
	c.next++
	e := &entry{overlay: o, openedAt: c.next, exclusive: exclusive}
	c.entries.Put(e.openedAt, e)
	c.index[o] = e
	c.log.Zerolog().Debug().
		Str("component", componentOf(o)).
		Bool("exclusive", exclusive).
		Int("open", len(c.index)).
		Msg("overlay opened")
	c.notify()
}

// RegisterClose removes o from the registry. Closing an overlay that is not
// registered is a no-op.
func (c *Coordinator) RegisterClose(o Overlay) {
	if !c.remove(o) {
		return
	}
	c.log.Zerolog().Debug().
		Str("component", componentOf(o)).
		Int("open", len(c.index)).
		Msg("overlay closed")
	c.notify()
}

func (c *Coordinator) remove(o Overlay) bool {
	e, ok := c.index[o]
	if !ok {
		return false
	}
	delete(c.index, o)
	c.entries.Remove(e.openedAt)
	return true
}

// forceClose asks e's overlay to close and removes the entry whatever the
// outcome.
func (c *Coordinator) forceClose(e *entry) {
	component := componentOf(e.overlay)
	var closeErr error
	ok := errors.Guard(c.errs, "overlay.Close", component, func() {
		closeErr = e.overlay.Close()
	})
	if !ok || closeErr != nil {
		errors.ReportDiagnostic(c.errs, &errors.Diagnostic{
			Code:      errors.CodeCloseFailed,
			Op:        "overlay.Coordinator.forceClose",
			Component: component,
			Message:   "close failed; entry removed",
			Err:       closeErr,
		})
	}
	if c.remove(e.overlay) {
		c.notify()
	}
}

// snapshot returns the entries in opening order.
func (c *Coordinator) snapshot() []*entry {
	values := c.entries.Values()
	out := make([]*entry, len(values))
	for i, v := range values {
		out[i] = v.(*entry)
	}
	return out
}

// Topmost returns the most recently opened non-exclusive overlay, or nil.
func (c *Coordinator) Topmost() Overlay {
	it := c.entries.Iterator()
	for it.End(); it.Prev(); {
		e := it.Value().(*entry)
		if !e.exclusive {
			return e.overlay
		}
	}
	return nil
}

// HandleEscape closes the open exclusive overlay if there is one, otherwise
// the topmost non-exclusive overlay. It reports whether anything closed.
func (c *Coordinator) HandleEscape() bool {
	if c.CloseAllExclusive() > 0 {
		return true
	}
	top := c.Topmost()
	if top == nil {
		return false
	}
	c.forceClose(c.index[top])
	return true
}

// HandleOutsideClick closes every exclusive overlay whose region does not
// contain target. It returns how many closed.
func (c *Coordinator) HandleOutsideClick(target *dom.Node) int {
	closed := 0
	for _, e := range c.snapshot() {
		if !e.exclusive || !c.IsOpen(e.overlay) {
			continue
		}
		inside := false
		errors.Guard(c.errs, "overlay.Contains", componentOf(e.overlay), func() {
			inside = e.overlay.Contains(target)
		})
		if !inside {
			c.forceClose(e)
			closed++
		}
	}
	return closed
}

// CloseAllExclusive closes every open exclusive overlay and returns how many
// there were.
func (c *Coordinator) CloseAllExclusive() int {
	closed := 0
	for _, e := range c.snapshot() {
		if e.exclusive && c.IsOpen(e.overlay) {
			c.forceClose(e)
			closed++
		}
	}
	return closed
}

// AnyExclusiveOpen reports whether an exclusive overlay is open.
func (c *Coordinator) AnyExclusiveOpen() bool {
	return c.OpenCount(true) > 0
}

// OpenCount returns the number of open overlays of the given kind.
func (c *Coordinator) OpenCount(exclusive bool) int {
	n := 0
	for _, e := range c.index {
		if e.exclusive == exclusive {
			n++
		}
	}
	return n
}

// IsOpen reports whether o is registered.
func (c *Coordinator) IsOpen(o Overlay) bool {
	_, ok := c.index[o]
	return ok
}

// Len returns the number of registered overlays.
func (c *Coordinator) Len() int { return len(c.index) }

// Open returns the registered overlays in opening order.
func (c *Coordinator) Open() []Overlay {
	entries := c.snapshot()
	out := make([]Overlay, len(entries))
	for i, e := range entries {
		out[i] = e.overlay
	}
	return out
}

// Clear empties the registry without closing anything.
func (c *Coordinator) Clear() {
	if len(c.index) == 0 {
		return
	}
	c.entries.Clear()
	c.index = make(map[Overlay]*entry)
	c.notify()
}
