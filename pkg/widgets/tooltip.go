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

func tooltipSchema(timing core.Timing) *attrs.Schema {
	return attrs.NewSchema(
		attrs.String("text", ""),
		attrs.Enum("position", "top", "top", "bottom", "left", "right"),
		attrs.Millis("delay", timing.TooltipShowDelay),
		attrs.Enum("theme", "dark", "dark", "light"),
	)
}

// Tooltip shows a text bubble next to its trigger content (dt-tooltip).
//
// Pointer entry and focus schedule the bubble after delay; pointer exit and
// blur schedule hiding after the runtime's hide delay. Every transition
// cancels the pending one. A touch toggles.
type Tooltip struct {
	*core.Instance
	schema  *attrs.Schema
	content []*dom.Node
	visible bool
	pending *timer.Handle
}

// NewTooltip creates an unmounted tooltip with the given text around
// content.
func NewTooltip(rt *core.Runtime, text string, content ...*dom.Node) *Tooltip {
	t := &Tooltip{schema: tooltipSchema(rt.Timing()), content: content}
	t.Instance = rt.NewInstance(t)
	if text != "" {
		t.SetText(text)
	}
	return t
}

// Tag returns dt-tooltip.
func (t *Tooltip) Tag() string { return "dt-tooltip" }

// Schema returns the observed attributes.
func (t *Tooltip) Schema() *attrs.Schema { return t.schema }

// Render builds the anchored content and the bubble.
func (t *Tooltip) Render(state attrs.Snapshot) []*dom.Node {
	return []*dom.Node{
		dom.El("div", dom.Key("trigger"), dom.Class("tooltip-trigger"),
			dom.Children(cloneAll(t.content)...)),
		dom.El("div", dom.Key("bubble"),
			dom.Class("tooltip", state.String("position"), state.String("theme"), when(t.visible, "show")),
			dom.Attribute("role", "tooltip"),
			dom.Attribute("aria-hidden", strconv.FormatBool(!t.visible)),
			dom.Text(state.String("text")),
		),
	}
}

// Bindings shows and hides the bubble from its trigger.
func (t *Tooltip) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("trigger", dom.EventMouseEnter, func(*dom.Event) { t.Show() }),
		listeners.OnKey("trigger", dom.EventMouseLeave, func(*dom.Event) { t.Hide() }),
		listeners.OnKey("trigger", dom.EventFocus, func(*dom.Event) { t.Show() }),
		listeners.OnKey("trigger", dom.EventBlur, func(*dom.Event) { t.Hide() }),
		listeners.OnKey("trigger", dom.EventTouchStart, func(ev *dom.Event) {
			ev.PreventDefault()
			t.Toggle()
		}),
	}
}

// Visible reports whether the bubble is showing.
func (t *Tooltip) Visible() bool { return t.visible }

// Delay returns the show delay.
func (t *Tooltip) Delay() time.Duration { return t.State().Duration("delay") }

// Show schedules the bubble after the show delay. It does nothing while the
// bubble is already showing.
func (t *Tooltip) Show() {
	if t.visible {
		t.Timers().Cancel(t.pending)
		return
	}
	t.schedule(t.Delay(), true)
}

// Hide schedules hiding after the runtime's hide delay.
func (t *Tooltip) Hide() {
	t.schedule(t.Runtime().Timing().TooltipHideDelay, false)
}

// Toggle hides a visible bubble and shows a hidden one.
func (t *Tooltip) Toggle() {
	if t.visible {
		t.Hide()
	} else {
		t.Show()
	}
}

func (t *Tooltip) schedule(d time.Duration, visible bool) {
	t.Timers().Cancel(t.pending)
	t.pending = t.After(d, func() {
		t.pending = nil
		t.setVisible(visible)
	})
}

func (t *Tooltip) setVisible(visible bool) {
	if t.visible == visible {
		return
	}
	t.visible = visible
	t.Invalidate()
	if visible {
		t.Emit(EventTooltipShow, nil)
	} else {
		t.Emit(EventTooltipHide, nil)
	}
}

// SetContent replaces the trigger content.
func (t *Tooltip) SetContent(nodes ...*dom.Node) {
	t.content = nodes
	t.Invalidate()
}

// SetText sets the bubble text.
func (t *Tooltip) SetText(text string) { t.SetAttribute("text", text) }

// SetPosition places the bubble relative to its anchor.
func (t *Tooltip) SetPosition(position string) { t.SetAttribute("position", position) }

// SetTheme sets the bubble's theme.
func (t *Tooltip) SetTheme(theme string) { t.SetAttribute("theme", theme) }

// SetDelay sets the show delay.
func (t *Tooltip) SetDelay(d time.Duration) {
	t.SetAttribute("delay", strconv.FormatInt(d.Milliseconds(), 10))
}
