package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/overlay"
	"github.com/go-drift/dtkit/pkg/render"
	"github.com/go-drift/dtkit/pkg/timer"
)

// Definition describes a component kind.
type Definition interface {
	// Tag is the element name, such as "dt-checkbox".
	Tag() string
	// Schema declares the observed attributes.
	Schema() *attrs.Schema
	// Render builds the host's children from a state snapshot. It must not
	// mutate attributes.
	Render(state attrs.Snapshot) []*dom.Node
	// Bindings lists the event bindings the instance holds while mounted.
	Bindings() []listeners.Spec
}

// Mounter is implemented by definitions that act after the first render.
type Mounter interface {
	DidMount()
}

// Unmounter is implemented by definitions that act before teardown.
type Unmounter interface {
	WillUnmount()
}

// AttributeObserver is implemented by definitions that react to attribute
// changes synchronously, before the resulting render.
type AttributeObserver interface {
	AttributeChanged(name string, old, value attrs.Value)
}

// Renderer is implemented by definitions that act after each committed pass,
// such as restoring focus into the fresh subtree.
type Renderer interface {
	DidRender(pass render.Pass)
}

// Opener is implemented by overlay components. The registry follows IsOpen:
// an instance that is open when it mounts, whether opened beforehand or kept
// open across a remount, is registered right after its first render.
type Opener interface {
	overlay.Overlay
	IsOpen() bool
	// Exclusive reports whether opening closes other exclusive overlays.
	Exclusive() bool
}

// Phase is an instance's lifecycle phase.
type Phase int

const (
	PhaseUnmounted Phase = iota
	PhaseMounting
	PhaseMounted
	PhaseRendering
	PhaseUnmounting
)

func (p Phase) String() string {
	switch p {
	case PhaseUnmounted:
		return "unmounted"
	case PhaseMounting:
		return "mounting"
	case PhaseMounted:
		return "mounted"
	case PhaseRendering:
		return "rendering"
	case PhaseUnmounting:
		return "unmounting"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is the payload of a component event.
type Event struct {
	Type   string
	Source *Instance
	Detail any
}

// Instance is one mounted occurrence of a component.
type Instance struct {
	id    string
	def   Definition
	rt    *Runtime
	host  *dom.Node
	log   *logging.Logger
	phase Phase

	store     *attrs.Store
	scheduler *render.Scheduler
	bindings  *listeners.Lifecycle
	timers    *timer.Group
}

func newInstance(rt *Runtime, def Definition) *Instance {
	inst := &Instance{
		id:   uuid.NewString(),
		def:  def,
		rt:   rt,
		host: dom.El(def.Tag()),
	}
	inst.host.SetOwner(inst)
	inst.log = rt.log.Component(def.Tag(), inst.id)
	inst.store = attrs.NewStore(def.Schema(), rt.errs, def.Tag())
	inst.scheduler = render.New(render.Options{
		Loop:          rt.loop,
		Source:        inst.store,
		Build:         inst.build,
		Errors:        rt.errs,
		Component:     def.Tag(),
		ReentrancyCap: rt.cap,
	})
	inst.bindings = listeners.New(rt.errs, def.Tag())
	inst.timers = rt.newTimerGroup(inst)
	return inst
}

// ID returns the instance's unique handle.
func (i *Instance) ID() string { return i.id }

// Tag returns the component's element name.
func (i *Instance) Tag() string { return i.def.Tag() }

// Runtime returns the runtime the instance belongs to.
func (i *Instance) Runtime() *Runtime { return i.rt }

// Host returns the host node. It is stable across renders.
func (i *Instance) Host() *dom.Node { return i.host }

// Phase returns the lifecycle phase.
func (i *Instance) Phase() Phase { return i.phase }

// Mounted reports whether the instance is mounted, including while it
// renders.
func (i *Instance) Mounted() bool {
	return i.phase == PhaseMounted || i.phase == PhaseRendering
}

// live reports whether timers and renders may still act on the instance.
func (i *Instance) live() bool {
	return i.phase == PhaseMounting || i.Mounted()
}

// Logger returns the instance logger.
func (i *Instance) Logger() *logging.Logger { return i.log }

// Timers returns the instance's timer group.
func (i *Instance) Timers() *timer.Group { return i.timers }

// Listeners returns the instance's binding lifecycle.
func (i *Instance) Listeners() *listeners.Lifecycle { return i.bindings }

// After schedules fn on the instance's timer group.
func (i *Instance) After(d time.Duration, fn func()) *timer.Handle {
	return i.timers.After(d, fn)
}

// Mount attaches the host under parent, binds listeners and renders
// synchronously. Mounting a mounted instance is a no-op.
func (i *Instance) Mount(parent *dom.Node) error {
	if parent == nil {
		return errors.ErrNoParent
	}
	if i.phase != PhaseUnmounted {
		return nil
	}
	i.phase = PhaseMounting
	parent.AppendChild(i.host)
	i.rt.register(i)
	i.bindings.BindOnMount(i.host, i.rt.doc.Root(), i.def.Bindings()...)
	i.scheduler.RenderNow()
	i.phase = PhaseMounted
	i.log.Debug("mounted")

	if o, ok := i.def.(Opener); ok && o.IsOpen() {
		i.RegisterOverlay()
	}

	if m, ok := i.def.(Mounter); ok {
		errors.Guard(i.rt.errs, "core.DidMount", i.Tag(), m.DidMount)
	}
	return nil
}

// Unmount tears the instance down synchronously: timers, bindings, overlay
// entry and pending renders are all gone when it returns. Unmounting an
// unmounted instance is a no-op.
func (i *Instance) Unmount() {
	if i.phase == PhaseUnmounted || i.phase == PhaseUnmounting {
		return
	}
	i.phase = PhaseUnmounting
	if u, ok := i.def.(Unmounter); ok {
		errors.Guard(i.rt.errs, "core.WillUnmount", i.Tag(), u.WillUnmount)
	}

	i.timers.CancelAll()
	i.bindings.UnbindAll()
	i.UnregisterOverlay()
	i.scheduler.Stop()
	if i.rt.focus.HasFocus(i.host) {
		i.rt.focus.Blur()
	}
	i.host.Remove()
	i.rt.unregister(i)
	i.phase = PhaseUnmounted
	i.log.Debug("unmounted")
}

func (i *Instance) build(p render.Pass) func() {
	prev := i.phase
	i.phase = PhaseRendering
	defer func() { i.phase = prev }()

	children := i.def.Render(p.Snapshot)
	return func() {
		focusKey := i.focusedKey()
		i.host.ReplaceChildren(children...)
		i.bindings.Rebind(i.host)
		if focusKey != "" {
			i.rt.focus.Retarget(i.host.FindKey(focusKey))
		}
		if r, ok := i.def.(Renderer); ok {
			r.DidRender(p)
		}
	}
}

// focusedKey returns the key of the focused node when it sits in the
// rendered subtree.
func (i *Instance) focusedKey() string {
	f := i.rt.focus.Focused()
	if f == nil || f == i.host || !i.host.Contains(f) {
		return ""
	}
	return f.Key()
}

// Invalidate schedules a render without an attribute change, for content a
// component holds outside its attributes.
func (i *Instance) Invalidate() {
	if i.live() {
		i.scheduler.Request()
	}
}

// Attribute returns the raw value of name.
func (i *Instance) Attribute(name string) attrs.Value { return i.store.Get(name) }

// HasAttribute reports whether name is present.
func (i *Instance) HasAttribute(name string) bool { return i.store.Get(name).Present }

// SetAttribute sets name to value.
func (i *Instance) SetAttribute(name, value string) bool {
	return i.SetAttributeValue(name, attrs.Present(value))
}

// RemoveAttribute removes name.
func (i *Instance) RemoveAttribute(name string) bool {
	return i.SetAttributeValue(name, attrs.Absent)
}

// ToggleAttribute makes a presence attribute match on.
func (i *Instance) ToggleAttribute(name string, on bool) bool {
	if on {
		if i.HasAttribute(name) {
			return false
		}
		return i.SetAttribute(name, "")
	}
	return i.RemoveAttribute(name)
}

// SetAttributeValue applies v to name. It reports whether the value changed;
// an unchanged value triggers nothing. A change is mirrored onto the host,
// passed to an AttributeObserver, and schedules a render when mounted.
func (i *Instance) SetAttributeValue(name string, v attrs.Value) bool {
	old := i.store.Get(name)
	if !i.store.Set(name, v) {
		return false
	}
	if v.Present {
		i.host.SetAttribute(name, v.V)
	} else {
		i.host.RemoveAttribute(name)
	}
	if o, ok := i.def.(AttributeObserver); ok {
		errors.Guard(i.rt.errs, "core.AttributeChanged", i.Tag(), func() {
			o.AttributeChanged(name, old, v)
		})
	}
	if i.live() {
		i.scheduler.Request()
	}
	return true
}

// State returns the current derived state.
func (i *Instance) State() attrs.Snapshot { return i.store.State() }

// RenderState returns the render scheduler's phase.
func (i *Instance) RenderState() render.State { return i.scheduler.State() }

// RenderCount returns the number of committed render passes.
func (i *Instance) RenderCount() int { return i.scheduler.RenderCount() }

// LastPass returns the most recently committed pass.
func (i *Instance) LastPass() (render.Pass, bool) { return i.scheduler.LastPass() }

// Find returns the node with the given key in the rendered subtree.
func (i *Instance) Find(key string) *dom.Node { return i.host.FindKey(key) }

// Contains reports whether target is the host or inside it.
func (i *Instance) Contains(target *dom.Node) bool { return i.host.Contains(target) }

// FocusKey moves focus to the node with the given key.
func (i *Instance) FocusKey(key string) bool {
	return i.rt.focus.RequestFocus(i.Find(key))
}

// RegisterOverlay records the component as an open overlay. The component
// must implement Opener. Instances that are not mounted are never
// registered; Mount registers them if they are still open by then.
func (i *Instance) RegisterOverlay() {
	if !i.live() {
		return
	}
	if o, ok := i.def.(Opener); ok {
		i.rt.overlays.RegisterOpen(o, o.Exclusive())
	}
}

// UnregisterOverlay drops the component's overlay entry, if any.
func (i *Instance) UnregisterOverlay() {
	if o, ok := i.def.(overlay.Overlay); ok {
		i.rt.overlays.RegisterClose(o)
	}
}

// Emit dispatches a bubbling component event from the host. Listeners get an
// *Event as the dom event's Detail.
func (i *Instance) Emit(typ string, detail any) {
	ev := dom.NewEvent(typ)
	ev.Detail = &Event{Type: typ, Source: i, Detail: detail}
	i.log.Zerolog().Debug().Str("event", typ).Msg("emit")
	i.host.Dispatch(ev)
}

// On subscribes fn to component events of type typ emitted by this instance.
// The returned function removes the subscription.
func (i *Instance) On(typ string, fn func(Event)) (off func()) {
	id := i.host.AddEventListener(typ, func(ev *dom.Event) {
		if e, ok := ev.Detail.(*Event); ok && e.Source == i {
			errors.Guard(i.rt.errs, "core.On."+typ, i.Tag(), func() { fn(*e) })
		}
	}, false)
	return func() { i.host.RemoveEventListener(id) }
}
