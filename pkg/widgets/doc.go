// Package widgets provides the dt-* component kinds built on the core
// runtime.
//
// Each component embeds *core.Instance and is created against a runtime:
//
//	cb := widgets.NewCheckbox(rt)
//	cb.SetLabel("Accept terms")
//	cb.Mount(rt.Document().Body())
//
// Components expose the same surface twice: declaratively through their
// observed attributes, and imperatively through methods such as Open, Close,
// Toggle and Dismiss, which are thin wrappers over attribute changes. State
// always derives from the attributes, so both surfaces stay in step.
//
// # Events
//
// Components announce changes with bubbling events whose Detail is a
// *core.Event. Subscribe on the instance:
//
//	cb.On(widgets.EventCheckboxChange, func(e core.Event) {
//	    change := e.Detail.(widgets.CheckboxChange)
//	    fmt.Println(change.Checked)
//	})
//
// # Overlays
//
// Dropdowns register as exclusive overlays, so opening one closes any
// other. Modals stack as non-exclusive overlays; Escape closes the topmost
// and the document root carries data-scroll-locked while any is open.
// Either kind registers only while mounted, so a component opened before
// Mount takes its place in the stack when it mounts.
package widgets
