package widgets

import (
	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
)

var buttonVariants = append(append([]string{}, Variants...),
	"link", "ghost", "menu",
	"outline-primary", "outline-secondary", "outline-success", "outline-danger",
	"outline-warning", "outline-info", "outline-light", "outline-dark",
	"ghost-primary", "ghost-secondary", "ghost-success", "ghost-danger",
	"ghost-warning", "ghost-info",
)

var buttonSchema = attrs.NewSchema(
	attrs.Enum("variant", "primary", buttonVariants...),
	attrs.Enum("size", "md", "xs", "sm", "md", "lg"),
	attrs.String("icon", ""),
	attrs.Bool("disabled"),
	attrs.Enum("type", "button", "button", "submit", "reset"),
	attrs.String("href", ""),
	attrs.Flag("bordered", true),
	attrs.Flag("background", true),
)

// ButtonClick is the detail of EventButtonClick.
type ButtonClick struct {
	Href string
}

// Button is a push button or, with href, a link styled as one (dt-button).
type Button struct {
	*core.Instance
	label string
}

// NewButton creates an unmounted button with the given label.
func NewButton(rt *core.Runtime, label string) *Button {
	b := &Button{label: label}
	b.Instance = rt.NewInstance(b)
	return b
}

// Tag returns dt-button.
func (b *Button) Tag() string { return "dt-button" }

// Schema returns the observed attributes.
func (b *Button) Schema() *attrs.Schema { return buttonSchema }

// Render builds a button, or a link when href is set.
func (b *Button) Render(state attrs.Snapshot) []*dom.Node {
	disabled := state.Bool("disabled")
	href := state.String("href")
	icon := state.String("icon")

	tag := "button"
	if href != "" {
		tag = "a"
	}
	return []*dom.Node{
		dom.El(tag, dom.Key("button"),
			dom.Class("btn", "btn-"+state.String("variant"), unless(state.String("size"), "md", "btn-"),
				when(disabled, "disabled"),
				when(icon != "" && b.label == "", "btn-icon"),
				when(!state.Bool("bordered"), "btn-borderless"),
				when(!state.Bool("background"), "btn-transparent")),
			dom.AttributeIf(href == "", "type", state.String("type")),
			dom.AttributeIf(href != "", "href", href),
			dom.AttributeIf(disabled && href == "", "disabled", ""),
			dom.AttributeIf(disabled, "aria-disabled", "true"),
			dom.Children(
				dom.If(icon != "", dom.El("dt-icon", dom.Attribute("name", icon))),
				dom.If(b.label != "", dom.El("span", dom.Key("label"), dom.Text(b.label))),
			),
		),
	}
}

// Bindings emits EventButtonClick unless disabled.
func (b *Button) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("button", dom.EventClick, func(ev *dom.Event) {
			if b.Disabled() {
				ev.PreventDefault()
				ev.StopPropagation()
				return
			}
			b.Emit(EventButtonClick, ButtonClick{Href: b.State().String("href")})
		}),
	}
}

// Click emits EventButtonClick unless the button is disabled.
func (b *Button) Click() {
	if n := b.Find("button"); n != nil {
		n.Dispatch(dom.NewEvent(dom.EventClick))
	}
}

// Disabled reports whether the disabled attribute is present.
func (b *Button) Disabled() bool { return b.State().Bool("disabled") }

// Label returns the button text.
func (b *Button) Label() string { return b.label }

// SetLabel replaces the button text.
func (b *Button) SetLabel(label string) {
	if label == b.label {
		return
	}
	b.label = label
	b.Invalidate()
}

// SetVariant sets the colour variant.
func (b *Button) SetVariant(variant string) { b.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (b *Button) SetSize(size string) { b.SetAttribute("size", size) }

// SetIcon sets the leading icon name.
func (b *Button) SetIcon(icon string) { b.SetAttribute("icon", icon) }

// SetDisabled toggles the disabled attribute.
func (b *Button) SetDisabled(disabled bool) { b.ToggleAttribute("disabled", disabled) }

// SetHref turns the button into a link. Empty restores the button.
func (b *Button) SetHref(href string) { b.SetAttribute("href", href) }
