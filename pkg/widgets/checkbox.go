package widgets

import (
	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/render"
)

var checkboxSchema = attrs.NewSchema(
	attrs.Bool("checked"),
	attrs.Bool("indeterminate"),
	attrs.Bool("disabled"),
	attrs.Enum("size", "md", Sizes...),
	attrs.Enum("variant", "primary", Variants...),
	attrs.String("label", ""),
)

// CheckboxChange is the detail of EventCheckboxChange.
type CheckboxChange struct {
	Checked bool
	State   listeners.ToggleState
}

// Checkbox is a switch-style toggle control (dt-checkbox).
//
// Its state is the checked and indeterminate attributes. Clicking the
// container or pressing Space or Enter on the host runs a toggle
// transaction: the attribute is committed first and EventCheckboxChange is
// dispatched after. Indeterminate always toggles to checked.
type Checkbox struct {
	*core.Instance
	toggle listeners.Toggle
}

// NewCheckbox creates an unmounted checkbox.
func NewCheckbox(rt *core.Runtime) *Checkbox {
	c := &Checkbox{}
	c.Instance = rt.NewInstance(c)
	c.Host().SetAttribute("role", "checkbox")
	c.Host().SetAttribute("tabindex", "0")
	return c
}

// Tag returns dt-checkbox.
func (c *Checkbox) Tag() string { return "dt-checkbox" }

// Schema returns the observed attributes.
func (c *Checkbox) Schema() *attrs.Schema { return checkboxSchema }

// Render builds the box and its label.
func (c *Checkbox) Render(state attrs.Snapshot) []*dom.Node {
	checked := state.Bool("checked")
	indeterminate := state.Bool("indeterminate")
	disabled := state.Bool("disabled")
	size := state.String("size")
	variant := state.String("variant")
	label := state.String("label")

	return []*dom.Node{
		dom.El("div", dom.Key("container"), dom.Class("checkbox-container"),
			dom.Children(
				dom.El("div", dom.Key("switch"),
					dom.Class("checkbox-switch", "size-"+size, variant,
						when(checked && !indeterminate, "checked"),
						when(indeterminate, "indeterminate"),
						when(disabled, "disabled")),
				),
				dom.If(label != "", dom.El("label", dom.Key("label"), dom.Class("checkbox-label", "size-"+size), dom.Text(label))),
				dom.El("input", dom.Key("input"), dom.Class("checkbox-input"),
					dom.Attribute("type", "checkbox"),
					dom.AttributeIf(checked, "checked", ""),
					dom.AttributeIf(disabled, "disabled", ""),
				),
			),
		),
	}
}

// Bindings wires click and keyboard toggling.
func (c *Checkbox) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("container", dom.EventClick, func(ev *dom.Event) {
			if c.Disabled() {
				return
			}
			ev.PreventDefault()
			c.Toggle()
		}),
		listeners.OnHost(dom.EventKeyDown, func(ev *dom.Event) {
			if !isActivationKey(ev.Key) || c.Disabled() {
				return
			}
			ev.PreventDefault()
			c.Toggle()
		}),
	}
}

// DidRender mirrors the state onto the host's ARIA attributes.
func (c *Checkbox) DidRender(render.Pass) {
	aria := "false"
	switch c.ToggleState() {
	case listeners.Checked:
		aria = "true"
	case listeners.Indeterminate:
		aria = "mixed"
	}
	c.Host().SetAttribute("aria-checked", aria)
	if c.Disabled() {
		c.Host().SetAttribute("aria-disabled", "true")
	} else {
		c.Host().RemoveAttribute("aria-disabled")
	}
}

// Toggle runs a toggle transaction. It reports the resulting state and
// whether the toggle happened; disabled checkboxes and re-entrant calls are
// refused.
func (c *Checkbox) Toggle() (listeners.ToggleState, bool) {
	return c.toggle.Run(c)
}

// ToggleState returns the committed state.
func (c *Checkbox) ToggleState() listeners.ToggleState {
	state := c.State()
	switch {
	case state.Bool("indeterminate"):
		return listeners.Indeterminate
	case state.Bool("checked"):
		return listeners.Checked
	default:
		return listeners.Unchecked
	}
}

// ToggleDisabled reports whether toggling is blocked.
func (c *Checkbox) ToggleDisabled() bool { return c.Disabled() }

// CommitToggle writes the next state to the attributes.
func (c *Checkbox) CommitToggle(next listeners.ToggleState) {
	c.RemoveAttribute("indeterminate")
	c.ToggleAttribute("checked", next == listeners.Checked)
}

// ToggleCommitted emits EventCheckboxChange for a committed toggle.
func (c *Checkbox) ToggleCommitted(next listeners.ToggleState) {
	c.Emit(EventCheckboxChange, CheckboxChange{Checked: next == listeners.Checked, State: next})
}

// Checked reports whether the checked attribute is present.
func (c *Checkbox) Checked() bool { return c.State().Bool("checked") }

// Indeterminate reports whether the indeterminate attribute is present.
func (c *Checkbox) Indeterminate() bool { return c.State().Bool("indeterminate") }

// Disabled reports whether the disabled attribute is present.
func (c *Checkbox) Disabled() bool { return c.State().Bool("disabled") }

// SetChecked sets or clears checked without dispatching a change event. It
// also leaves the indeterminate state.
func (c *Checkbox) SetChecked(checked bool) {
	c.RemoveAttribute("indeterminate")
	c.ToggleAttribute("checked", checked)
}

// SetIndeterminate sets or clears the indeterminate state.
func (c *Checkbox) SetIndeterminate(on bool) { c.ToggleAttribute("indeterminate", on) }

// SetDisabled toggles the disabled attribute.
func (c *Checkbox) SetDisabled(disabled bool) { c.ToggleAttribute("disabled", disabled) }

// SetSize sets sm, md or lg.
func (c *Checkbox) SetSize(size string) { c.SetAttribute("size", size) }

// SetVariant sets the colour variant.
func (c *Checkbox) SetVariant(variant string) { c.SetAttribute("variant", variant) }

// SetLabel sets the label text.
func (c *Checkbox) SetLabel(label string) { c.SetAttribute("label", label) }
