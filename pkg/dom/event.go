package dom

import (
	"slices"
	"sync/atomic"
)

// Phase is the dispatch phase an event is currently in.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Common event types.
const (
	EventClick      = "click"
	EventKeyDown    = "keydown"
	EventMouseEnter = "mouseenter"
	EventMouseLeave = "mouseleave"
	EventFocus      = "focus"
	EventBlur       = "blur"
	EventTouchStart = "touchstart"
)

// Event is dispatched through the tree.
type Event struct {
	Type string
	// Key is the keyboard key for key events ("Escape", "Enter", " ", ...).
	Key string
	// Detail carries custom event payloads.
	Detail any
	// Bubbles controls whether the event runs the bubble phase.
	Bubbles bool

	Target        *Node
	CurrentTarget *Node
	Phase         Phase

	stopped          bool
	stoppedImmediate bool
	defaultPrevented bool
}

// NewEvent returns a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// KeyEvent returns a bubbling keydown event for key.
func KeyEvent(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key, Bubbles: true}
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() { e.stopped = true }

// StopImmediatePropagation also skips remaining listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedImmediate = true
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// Handler handles an event.
type Handler func(ev *Event)

// ListenerID identifies a listener added with AddEventListener.
type ListenerID uint64

var nextListenerID atomic.Uint64

type listener struct {
	id      ListenerID
	typ     string
	fn      Handler
	capture bool
	removed bool
}

// AddEventListener registers fn for events of type typ on n. Capture
// listeners run during the capture phase; others at target and while
// bubbling.
func (n *Node) AddEventListener(typ string, fn Handler, capture bool) ListenerID {
	l := &listener{
		id:      ListenerID(nextListenerID.Add(1)),
		typ:     typ,
		fn:      fn,
		capture: capture,
	}
	n.listeners = append(n.listeners, l)
	return l.id
}

// RemoveEventListener unregisters a listener. It reports whether the
// listener was registered on n.
func (n *Node) RemoveEventListener(id ListenerID) bool {
	for i, l := range n.listeners {
		if l.id == id {
			l.removed = true
			n.listeners = slices.Delete(n.listeners, i, i+1)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners on n for typ, or for all
// types when typ is empty.
func (n *Node) ListenerCount(typ string) int {
	count := 0
	for _, l := range n.listeners {
		if typ == "" || l.typ == typ {
			count++
		}
	}
	return count
}

// Dispatch sends ev to n: capture listeners from the root down, then the
// target's own listeners, then bubbling listeners back up. It returns false
// if a listener called PreventDefault.
func (n *Node) Dispatch(ev *Event) bool {
	ev.Target = n
	var path []*Node
	for cur := n.parent; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}

	ev.Phase = PhaseCapturing
	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		path[i].invoke(ev, true, false)
	}

	if !ev.stopped {
		ev.Phase = PhaseAtTarget
		n.invoke(ev, true, true)
	}

	if ev.Bubbles {
		ev.Phase = PhaseBubbling
		for _, node := range path {
			if ev.stopped {
				break
			}
			node.invoke(ev, false, true)
		}
	}

	ev.Phase = PhaseNone
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

func (n *Node) invoke(ev *Event, capture, bubble bool) {
	ev.CurrentTarget = n
	snapshot := slices.Clone(n.listeners)
	// At target, capture listeners run before bubble listeners.
	for _, wantCapture := range []bool{true, false} {
		if (wantCapture && !capture) || (!wantCapture && !bubble) {
			continue
		}
		for _, l := range snapshot {
			if l.removed || l.typ != ev.Type || l.capture != wantCapture {
				continue
			}
			l.fn(ev)
			if ev.stoppedImmediate {
				return
			}
		}
	}
}
