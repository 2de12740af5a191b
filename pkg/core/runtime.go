package core

import (
	"context"
	"slices"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/focus"
	"github.com/go-drift/dtkit/pkg/host"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/overlay"
	"github.com/go-drift/dtkit/pkg/render"
	"github.com/go-drift/dtkit/pkg/theme"
	"github.com/go-drift/dtkit/pkg/timer"
)

// ScrollLockAttribute is set on the document root while a non-exclusive
// overlay such as a modal is open.
const ScrollLockAttribute = "data-scroll-locked"

// Options configures a Runtime.
type Options struct {
	// Loop runs renders and timers. Nil creates a loop on the system clock.
	Loop *host.Loop
	// Document is the tree components mount into. Nil creates one.
	Document *dom.Document
	// Theme is the theme manager. Nil creates an in-memory one.
	Theme *theme.Manager
	// Errors receives errors, panics and diagnostics. Nil uses
	// errors.DefaultHandler.
	Errors errors.Handler
	Logger *logging.Logger
	// ReentrancyCap bounds re-entrant render cycles per instance. Zero means
	// render.DefaultReentrancyCap.
	ReentrancyCap int
	// Toast and tooltip timing. Zero values mean the component defaults.
	Timing Timing
}

// Runtime is the explicit context shared by every instance in one document:
// the loop, the document, the overlay coordinator, the focus and theme
// managers, the error handler and the logger.
type Runtime struct {
	loop      *host.Loop
	doc       *dom.Document
	overlays  *overlay.Coordinator
	focus     *focus.Manager
	theme     *theme.Manager
	errs      errors.Handler
	log       *logging.Logger
	cap       int
	timing    Timing
	instances []*Instance
	closed    bool
}

// NewRuntime creates a runtime with an empty overlay registry and the theme
// applied to the document root.
func NewRuntime(ctx context.Context, opts Options) *Runtime {
	rt := &Runtime{
		loop:   opts.Loop,
		doc:    opts.Document,
		theme:  opts.Theme,
		errs:   opts.Errors,
		log:    opts.Logger,
		cap:    opts.ReentrancyCap,
		timing: opts.Timing.withDefaults(),
	}
	if rt.loop == nil {
		rt.loop = host.NewLoop(host.Options{Errors: rt.errs})
	}
	if rt.doc == nil {
		rt.doc = dom.NewDocument()
	}
	if rt.cap <= 0 {
		rt.cap = render.DefaultReentrancyCap
	}
	if rt.theme == nil {
		rt.theme = theme.NewManager(ctx, theme.Options{Errors: rt.errs, Logger: rt.log})
	}

	rt.overlays = overlay.New(overlay.Options{Errors: rt.errs, Logger: rt.log})
	rt.overlays.Attach(rt.doc.Root())
	rt.overlays.OnChange(rt.updateScrollLock)
	rt.focus = focus.NewManager(rt.doc.Root())
	rt.theme.Attach(rt.doc.Root())

	rt.log.Zerolog().Debug().
		Str("theme", string(rt.theme.Current())).
		Int("reentrancy_cap", rt.cap).
		Msg("runtime started")
	return rt
}

// Loop returns the host loop.
func (rt *Runtime) Loop() *host.Loop { return rt.loop }

// Document returns the document.
func (rt *Runtime) Document() *dom.Document { return rt.doc }

// Overlays returns the overlay coordinator.
func (rt *Runtime) Overlays() *overlay.Coordinator { return rt.overlays }

// Focus returns the focus manager.
func (rt *Runtime) Focus() *focus.Manager { return rt.focus }

// Theme returns the theme manager.
func (rt *Runtime) Theme() *theme.Manager { return rt.theme }

// Errors returns the error handler.
func (rt *Runtime) Errors() errors.Handler { return rt.errs }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *logging.Logger { return rt.log }

// Timing returns the resolved component timing.
func (rt *Runtime) Timing() Timing { return rt.timing }

// Instances returns the mounted instances in mount order.
func (rt *Runtime) Instances() []*Instance { return slices.Clone(rt.instances) }

// Lookup returns the mounted instance with the given id.
func (rt *Runtime) Lookup(id string) *Instance {
	for _, inst := range rt.instances {
		if inst.id == id {
			return inst
		}
	}
	return nil
}

// Flush runs all due loop work.
func (rt *Runtime) Flush() int { return rt.loop.Flush() }

// NewInstance creates an unmounted instance of def.
func (rt *Runtime) NewInstance(def Definition) *Instance {
	return newInstance(rt, def)
}

// Teardown unmounts every instance, newest first, and clears the overlay
// registry. The runtime must not be used afterwards.
func (rt *Runtime) Teardown() {
	if rt.closed {
		return
	}
	for i := len(rt.instances) - 1; i >= 0; i-- {
		rt.instances[i].Unmount()
	}
	rt.overlays.Clear()
	rt.overlays.Detach()
	rt.focus.Blur()
	rt.closed = true
	rt.log.Debug("runtime torn down")
}

func (rt *Runtime) register(inst *Instance) {
	rt.instances = append(rt.instances, inst)
}

func (rt *Runtime) unregister(inst *Instance) {
	rt.instances = slices.DeleteFunc(rt.instances, func(other *Instance) bool { return other == inst })
}

func (rt *Runtime) updateScrollLock() {
	root := rt.doc.Root()
	if rt.overlays.OpenCount(false) > 0 {
		root.SetAttribute(ScrollLockAttribute, "")
	} else {
		root.RemoveAttribute(ScrollLockAttribute)
	}
}

func (rt *Runtime) newTimerGroup(inst *Instance) *timer.Group {
	return timer.NewGroup(rt.loop, rt.errs, inst.Tag(), inst.live)
}
