package widgets

import (
	"strconv"
	"time"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/timer"
)

var toastIcons = map[string]string{
	"primary":   "info",
	"secondary": "info",
	"success":   "check",
	"danger":    "x",
	"warning":   "alert-triangle",
	"info":      "help",
	"light":     "info",
	"dark":      "info",
}

func toastSchema(timing core.Timing) *attrs.Schema {
	return attrs.NewSchema(
		attrs.Enum("variant", "info", Variants...),
		attrs.Enum("size", "md", Sizes...),
		attrs.Millis("duration", timing.ToastDuration),
		attrs.Enum("position", "top-right", "top-left", "top-right", "top-center", "bottom-left", "bottom-right", "bottom-center"),
		attrs.String("icon", ""),
	)
}

// Toast is a transient notification (dt-toast).
//
// A mounted toast dismisses itself after duration unless duration is 0.
// Changing duration while visible re-arms the timer. Dismissing emits
// EventToastDismiss once and unmounts the toast after the runtime's removal
// delay.
type Toast struct {
	*core.Instance
	schema  *attrs.Schema
	content []*dom.Node
	visible bool
	auto    *timer.Handle
	removal *timer.Handle
}

// NewToast creates an unmounted toast showing message.
func NewToast(rt *core.Runtime, message string) *Toast {
	t := &Toast{schema: toastSchema(rt.Timing())}
	if message != "" {
		t.content = []*dom.Node{dom.El("span", dom.Key("message"), dom.Text(message))}
	}
	t.Instance = rt.NewInstance(t)
	t.Host().SetAttribute("role", "alert")
	t.Host().SetAttribute("aria-live", "assertive")
	return t
}

// ShowToast creates a toast with the given variant and mounts it under the
// document body.
func ShowToast(rt *core.Runtime, message, variant string) (*Toast, error) {
	t := NewToast(rt, message)
	if variant != "" {
		t.SetVariant(variant)
	}
	if err := t.Mount(rt.Document().Body()); err != nil {
		return nil, err
	}
	return t, nil
}

// Tag returns dt-toast.
func (t *Toast) Tag() string { return "dt-toast" }

// Schema returns the observed attributes.
func (t *Toast) Schema() *attrs.Schema { return t.schema }

// Render builds the toast body and its close button.
func (t *Toast) Render(state attrs.Snapshot) []*dom.Node {
	variant := state.String("variant")
	icon := state.String("icon")
	if icon == "" {
		icon = toastIcons[variant]
	}
	duration := state.Duration("duration")

	return []*dom.Node{
		dom.El("div", dom.Key("box"),
			dom.Class("toast", "toast-"+variant, "size-"+state.String("size"), "position-"+state.String("position")),
			dom.Children(
				dom.El("dt-icon", dom.Key("icon"), dom.Attribute("name", icon)),
				dom.El("div", dom.Key("content"), dom.Class("toast-content"), dom.Children(cloneAll(t.content)...)),
				dom.El("button", dom.Key("dismiss"), dom.Class("toast-dismiss"), dom.Attribute("aria-label", "Dismiss"), dom.Text("×")),
				dom.If(duration > 0, dom.El("div", dom.Key("progress"), dom.Class("toast-progress"),
					dom.Attribute("data-duration-ms", strconv.FormatInt(duration.Milliseconds(), 10)))),
			),
		),
	}
}

// Bindings wires the dismiss button.
func (t *Toast) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("dismiss", dom.EventClick, func(*dom.Event) { t.Dismiss() }),
	}
}

// DidMount shows the toast and arms the auto-dismiss timer.
func (t *Toast) DidMount() { t.Show() }

// AttributeChanged re-arms the timer when duration changes while visible.
func (t *Toast) AttributeChanged(name string, _, _ attrs.Value) {
	if name == "duration" && t.visible {
		t.arm()
	}
}

// Visible reports whether the toast is showing.
func (t *Toast) Visible() bool { return t.visible }

// Duration returns the effective auto-dismiss delay. Zero disables it.
func (t *Toast) Duration() time.Duration { return t.State().Duration("duration") }

// Show makes the toast visible and re-arms the auto-dismiss timer. It also
// cancels a pending removal.
func (t *Toast) Show() {
	if !t.Mounted() {
		return
	}
	t.Timers().Cancel(t.removal)
	t.removal = nil
	t.visible = true
	t.Host().RemoveClass("fade-out")
	t.arm()
}

// Dismiss hides the toast, emits EventToastDismiss and schedules removal.
// Dismissing a hidden toast is a no-op.
func (t *Toast) Dismiss() {
	if !t.visible {
		return
	}
	t.visible = false
	t.Timers().Cancel(t.auto)
	t.auto = nil
	t.Host().AddClass("fade-out")
	t.Emit(EventToastDismiss, nil)
	t.removal = t.After(t.Runtime().Timing().ToastRemovalDelay, t.Unmount)
}

// Hide is an alias for Dismiss.
func (t *Toast) Hide() { t.Dismiss() }

func (t *Toast) arm() {
	t.Timers().Cancel(t.auto)
	t.auto = nil
	if d := t.Duration(); d > 0 {
		t.auto = t.After(d, t.Dismiss)
	}
}

// SetContent replaces the toast body.
func (t *Toast) SetContent(nodes ...*dom.Node) {
	t.content = nodes
	t.Invalidate()
}

// SetVariant sets the colour variant.
func (t *Toast) SetVariant(variant string) { t.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (t *Toast) SetSize(size string) { t.SetAttribute("size", size) }

// SetDuration sets the auto-dismiss delay; 0 disables it.
func (t *Toast) SetDuration(d time.Duration) {
	t.SetAttribute("duration", strconv.FormatInt(d.Milliseconds(), 10))
}

// SetPosition sets the screen corner.
func (t *Toast) SetPosition(position string) { t.SetAttribute("position", position) }

// SetIcon overrides the variant's icon.
func (t *Toast) SetIcon(icon string) { t.SetAttribute("icon", icon) }
