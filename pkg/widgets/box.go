package widgets

import (
	"time"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/timer"
)

// BoxRemovalDelay separates a box's dismissal from its removal.
const BoxRemovalDelay = 200 * time.Millisecond

var boxSchema = attrs.NewSchema(
	attrs.Enum("variant", "primary", Variants...),
	attrs.Enum("size", "md", Sizes...),
	attrs.Bool("dismissible"),
	attrs.String("icon", ""),
	attrs.String("title", ""),
	attrs.Flag("bordered", true),
	attrs.Flag("background", true),
)

var alertSchema = attrs.NewSchema(
	attrs.Enum("variant", "primary", Variants...),
	attrs.Enum("size", "md", Sizes...),
	attrs.Flag("dismissible", true),
	attrs.String("icon", ""),
)

var alertIcons = map[string]string{
	"primary":   "info",
	"secondary": "info",
	"success":   "check",
	"danger":    "alert-circle",
	"warning":   "alert-triangle",
	"info":      "help",
	"light":     "info",
	"dark":      "info",
}

// Box is a bordered message container (dt-box), the base of alerts.
//
// A dismissible box renders a close button. Dismissing emits EventBoxDismiss
// once, fades the host out and unmounts it after BoxRemovalDelay.
type Box struct {
	*core.Instance
	tag     string
	schema  *attrs.Schema
	icons   map[string]string
	content []*dom.Node
	hidden  bool
	removal *timer.Handle
}

// NewBox creates an unmounted box.
func NewBox(rt *core.Runtime, content ...*dom.Node) *Box {
	return newBox(rt, "dt-box", boxSchema, nil, content)
}

func newBox(rt *core.Runtime, tag string, schema *attrs.Schema, icons map[string]string, content []*dom.Node) *Box {
	b := &Box{tag: tag, schema: schema, icons: icons, content: content}
	b.Instance = rt.NewInstance(b)
	return b
}

// Alert is a box that is dismissible unless dismissible is "false" and that
// shows an icon matching its variant (dt-alert).
type Alert struct {
	*Box
}

// NewAlert creates an unmounted alert.
func NewAlert(rt *core.Runtime, content ...*dom.Node) *Alert {
	a := &Alert{Box: newBox(rt, "dt-alert", alertSchema, alertIcons, content)}
	a.Host().SetAttribute("role", "alert")
	a.Host().SetAttribute("aria-live", "polite")
	return a
}

// Tag returns dt-box or dt-alert.
func (b *Box) Tag() string { return b.tag }

// Schema returns the observed attributes.
func (b *Box) Schema() *attrs.Schema { return b.schema }

// Render builds the box from its attributes and content.
func (b *Box) Render(state attrs.Snapshot) []*dom.Node {
	variant := state.String("variant")
	icon := state.String("icon")
	if icon == "" {
		icon = b.icons[variant]
	}
	title := state.String("title")

	return []*dom.Node{
		dom.El("div", dom.Key("box"),
			dom.Class("box", "box-"+variant, "size-"+state.String("size"),
				when(b.schema.Observed("bordered") && !state.Bool("bordered"), "no-border"),
				when(b.schema.Observed("background") && !state.Bool("background"), "no-background")),
			dom.Children(
				dom.If(icon != "", dom.El("dt-icon", dom.Key("icon"), dom.Class("box-icon"), dom.Attribute("name", icon))),
				dom.El("div", dom.Key("content"), dom.Class("box-content"), dom.Children(
					dom.If(title != "", dom.El("div", dom.Key("title"), dom.Class("box-title"), dom.Text(title))),
					dom.El("div", dom.Key("body"), dom.Class("box-body"), dom.Children(cloneAll(b.content)...)),
				)),
				dom.If(state.Bool("dismissible"), dom.El("button", dom.Key("close"), dom.Class("box-close"),
					dom.Attribute("aria-label", "Close"),
					dom.Children(dom.El("dt-icon", dom.Attribute("name", "x"), dom.Attribute("size", "sm"))))),
			),
		),
	}
}

// Bindings wires the close button. It follows the button across renders
// and has nothing to bind while the box is not dismissible.
func (b *Box) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("close", dom.EventClick, func(*dom.Event) { b.Dismiss() }),
	}
}

// Visible reports whether the box has not been dismissed.
func (b *Box) Visible() bool { return !b.hidden }

// Dismiss hides the box, emits EventBoxDismiss and schedules removal.
// Dismissing a dismissed box is a no-op.
func (b *Box) Dismiss() {
	if b.hidden || !b.Mounted() {
		return
	}
	b.hidden = true
	b.Host().AddClass("fade-out")
	b.Emit(EventBoxDismiss, nil)
	b.removal = b.After(BoxRemovalDelay, b.Unmount)
}

// Hide is an alias for Dismiss.
func (b *Box) Hide() { b.Dismiss() }

// Show makes a dismissed box visible again and cancels its removal.
func (b *Box) Show() {
	b.Timers().Cancel(b.removal)
	b.removal = nil
	b.hidden = false
	b.Host().RemoveClass("fade-out")
}

// SetContent replaces the box body.
func (b *Box) SetContent(nodes ...*dom.Node) {
	b.content = nodes
	b.Invalidate()
}

// SetVariant sets the colour variant.
func (b *Box) SetVariant(variant string) { b.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (b *Box) SetSize(size string) { b.SetAttribute("size", size) }

// SetIcon sets the icon name. Empty falls back to the variant's icon on
// alerts and to none on boxes.
func (b *Box) SetIcon(icon string) { b.SetAttribute("icon", icon) }

// SetTitle sets the heading line.
func (b *Box) SetTitle(title string) { b.SetAttribute("title", title) }

// SetDismissible shows or hides the close button.
func (b *Box) SetDismissible(dismissible bool) {
	if d, _ := b.schema.Lookup("dismissible"); d.Kind == attrs.KindFlag {
		if dismissible {
			b.RemoveAttribute("dismissible")
		} else {
			b.SetAttribute("dismissible", "false")
		}
		return
	}
	b.ToggleAttribute("dismissible", dismissible)
}
