package widgets

import (
	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
)

var modalSchema = attrs.NewSchema(
	attrs.Bool("open"),
	attrs.String("title", ""),
	attrs.Flag("show-close-button", true),
	attrs.Flag("show-header", true),
	attrs.Flag("show-footer", true),
	attrs.Flag("backdrop-closable", true),
	attrs.Enum("size", "md", "sm", "md", "lg", "xl", "full"),
	attrs.Enum("variant", "default", "default", "primary", "success", "warning", "danger", "info"),
)

// Modal is a dialog over a backdrop (dt-modal).
//
// Open modals stack as non-exclusive overlays. Escape closes only the
// topmost one; the close button and a backdrop click (unless
// backdrop-closable is "false") close this one.
type Modal struct {
	*core.Instance
	body   []*dom.Node
	footer []*dom.Node
}

// NewModal creates an unmounted, closed modal.
func NewModal(rt *core.Runtime) *Modal {
	m := &Modal{}
	m.Instance = rt.NewInstance(m)
	m.Host().SetAttribute("role", "dialog")
	m.Host().SetAttribute("aria-modal", "true")
	return m
}

// Tag returns dt-modal.
func (m *Modal) Tag() string { return "dt-modal" }

// Schema returns the observed attributes.
func (m *Modal) Schema() *attrs.Schema { return modalSchema }

// Render builds the backdrop and dialog.
func (m *Modal) Render(state attrs.Snapshot) []*dom.Node {
	if !state.Bool("open") {
		return nil
	}
	showHeader := state.Bool("show-header")
	showFooter := state.Bool("show-footer")

	var header *dom.Node
	if showHeader {
		header = dom.El("div", dom.Key("header"), dom.Class("modal-header"), dom.Children(
			dom.El("h2", dom.Key("title"), dom.Class("modal-title"), dom.Text(state.String("title"))),
			dom.If(state.Bool("show-close-button"), dom.El("button", dom.Key("close"), dom.Class("modal-close"),
				dom.Attribute("aria-label", "Close modal"), dom.Text("×"))),
		))
	}

	return []*dom.Node{
		dom.El("div", dom.Key("backdrop"), dom.Class("modal-backdrop")),
		dom.El("div", dom.Key("container"),
			dom.Class("modal-container", "size-"+state.String("size"), unless(state.String("variant"), "default", "variant-")),
			dom.Children(
				header,
				dom.El("div", dom.Key("body"), dom.Class("modal-body"), dom.Children(cloneAll(m.body)...)),
				dom.If(showFooter, dom.El("div", dom.Key("footer"), dom.Class("modal-footer"), dom.Children(cloneAll(m.footer)...))),
			),
		),
	}
}

// Bindings wires the close button and the backdrop.
func (m *Modal) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("close", dom.EventClick, func(*dom.Event) { m.Close() }),
		listeners.OnKey("backdrop", dom.EventClick, func(ev *dom.Event) {
			if ev.Target == ev.CurrentTarget && m.State().Bool("backdrop-closable") {
				m.Close()
			}
		}),
	}
}

// AttributeChanged registers and unregisters the overlay as open toggles.
func (m *Modal) AttributeChanged(name string, old, value attrs.Value) {
	if name != "open" || old.Present == value.Present {
		return
	}
	if value.Present {
		m.RegisterOverlay()
		m.Emit(EventModalOpen, nil)
		return
	}
	m.UnregisterOverlay()
	m.Emit(EventModalClose, nil)
}

// IsOpen reports whether the modal is open.
func (m *Modal) IsOpen() bool { return m.State().Bool("open") }

// Exclusive reports false: modals stack.
func (m *Modal) Exclusive() bool { return false }

// Open shows the modal.
func (m *Modal) Open() { m.ToggleAttribute("open", true) }

// Close hides the modal. Closing a closed modal is a no-op.
func (m *Modal) Close() error {
	m.ToggleAttribute("open", false)
	return nil
}

// Toggle opens a closed modal and closes an open one.
func (m *Modal) Toggle() {
	if m.IsOpen() {
		m.Close()
	} else {
		m.Open()
	}
}

// SetContent replaces the body content. The nodes are templates: each render
// clones them.
func (m *Modal) SetContent(nodes ...*dom.Node) {
	m.body = nodes
	m.Invalidate()
}

// SetFooter replaces the footer content.
func (m *Modal) SetFooter(nodes ...*dom.Node) {
	m.footer = nodes
	m.Invalidate()
}

// SetTitle sets the header title.
func (m *Modal) SetTitle(title string) { m.SetAttribute("title", title) }

// SetSize sets the dialog width.
func (m *Modal) SetSize(size string) { m.SetAttribute("size", size) }

// SetVariant sets the colour variant.
func (m *Modal) SetVariant(variant string) { m.SetAttribute("variant", variant) }

// SetShowCloseButton shows or hides the close button.
func (m *Modal) SetShowCloseButton(show bool) { m.setFlag("show-close-button", show) }

// SetShowHeader shows or hides the header.
func (m *Modal) SetShowHeader(show bool) { m.setFlag("show-header", show) }

// SetShowFooter shows or hides the footer.
func (m *Modal) SetShowFooter(show bool) { m.setFlag("show-footer", show) }

// SetBackdropClosable controls whether a backdrop click closes the modal.
func (m *Modal) SetBackdropClosable(closable bool) { m.setFlag("backdrop-closable", closable) }

func (m *Modal) setFlag(name string, on bool) {
	if on {
		m.SetAttribute(name, "true")
	} else {
		m.SetAttribute(name, "false")
	}
}
