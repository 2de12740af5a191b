// Package core provides the component runtime: the per-document Runtime
// context and the Instance lifecycle every component kind runs on.
//
// A component kind implements [Definition]: a tag, an attribute schema, a
// render function from derived state to a subtree, and the event bindings it
// needs. The runtime wires each instance to the rest of the toolkit:
//
//   - an attrs.Store holds its observed attributes
//   - a render.Scheduler coalesces changes into render passes
//   - a listeners.Lifecycle rebinds handlers after every pass
//   - a timer.Group owns its timers
//
// # Lifecycle
//
// An instance moves through unmounted, mounting, mounted, rendering (while a
// pass is built), and unmounting. Unmount is synchronous: timers are
// cancelled, bindings removed and overlay entries dropped before it returns.
// Redundant lifecycle calls are no-ops.
//
// # Components
//
// Component kinds embed *Instance and implement Definition on themselves:
//
//	type Badge struct {
//	    *core.Instance
//	}
//
//	func NewBadge(rt *core.Runtime) *Badge {
//	    b := &Badge{}
//	    b.Instance = rt.NewInstance(b)
//	    return b
//	}
//
// Optional hooks ([Mounter], [Unmounter], [AttributeObserver], [Renderer])
// are discovered by type assertion.
//
// # Threading
//
// A Runtime and its instances belong to the goroutine running its host.Loop.
// Work from other goroutines enters through Loop.Dispatch.
package core
