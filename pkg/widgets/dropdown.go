package widgets

import (
	"strconv"
	"strings"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/focus"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/render"
)

var dropdownSchema = attrs.NewSchema(
	attrs.Enum("variant", "default", "default", "primary", "success", "danger", "warning", "info"),
	attrs.Enum("size", "md", Sizes...),
	attrs.Enum("position", "left", "left", "right", "center", "up"),
	attrs.String("trigger-icon", "more-horizontal"),
	attrs.String("trigger-text", ""),
	attrs.Bool("disabled"),
	attrs.Bool("open"),
)

// Item actions with built-in behaviour. Any other action closes the menu
// too; ActionKeepOpen is the only one that does not.
const (
	ActionClose    = "close"
	ActionKeepOpen = "keep-open"
)

// MenuItem is one entry of a dropdown menu.
type MenuItem struct {
	Text     string
	Action   string
	Href     string
	Icon     string
	Variant  string
	Disabled bool
}

// ItemClick is the detail of EventPopinItemClick.
type ItemClick struct {
	Action string
	Href   string
	Text   string
}

// Dropdown is a trigger button with a popup menu (dt-popin).
//
// An open dropdown is an exclusive overlay: opening it closes every other
// open dropdown first. It closes on outside click, on Escape (returning focus
// to the trigger) and after an item is chosen. ArrowUp and ArrowDown move
// focus between enabled items, wrapping around; Enter and Space choose the
// focused item.
type Dropdown struct {
	*core.Instance
	items      []MenuItem
	focusFirst bool
}

// NewDropdown creates an unmounted dropdown with the given items.
func NewDropdown(rt *core.Runtime, items ...MenuItem) *Dropdown {
	d := &Dropdown{items: items}
	d.Instance = rt.NewInstance(d)
	return d
}

// Tag returns dt-popin.
func (d *Dropdown) Tag() string { return "dt-popin" }

// Schema returns the observed attributes.
func (d *Dropdown) Schema() *attrs.Schema { return dropdownSchema }

// Render builds the trigger and the menu.
func (d *Dropdown) Render(state attrs.Snapshot) []*dom.Node {
	open := state.Bool("open")
	text := state.String("trigger-text")

	menu := dom.El("div", dom.Key("menu"),
		dom.Class("popin-menu",
			unless(state.String("position"), "left", "popin-menu-"),
			unless(state.String("size"), "md", "popin-menu-"),
			unless(state.String("variant"), "default", "popin-menu-"),
			when(open, "show")),
		dom.Attribute("role", "menu"),
	)
	for i, item := range d.items {
		menu.AppendChild(dom.El("button", dom.Key(itemKey(i)),
			dom.Class("popin-item", item.Variant, when(item.Disabled, "disabled")),
			dom.Attribute("role", "menuitem"),
			dom.AttributeIf(item.Action != "", "data-action", item.Action),
			dom.AttributeIf(item.Href != "", "href", item.Href),
			dom.AttributeIf(item.Disabled, "aria-disabled", "true"),
			dom.Text(item.Text),
			dom.Children(dom.If(item.Icon != "", dom.El("dt-icon", dom.Attribute("name", item.Icon), dom.Attribute("size", "sm")))),
		))
	}

	return []*dom.Node{
		dom.El("div", dom.Key("popin"), dom.Class("popin"), dom.Children(
			dom.El("button", dom.Key("trigger"), dom.Class("popin-trigger"),
				dom.AttributeIf(state.Bool("disabled"), "disabled", ""),
				dom.Attribute("aria-haspopup", "true"),
				dom.Attribute("aria-expanded", strconv.FormatBool(open)),
				dom.Children(
					dom.If(text != "", dom.El("span", dom.Text(text))),
					dom.El("dt-icon", dom.Attribute("name", state.String("trigger-icon")), dom.Attribute("size", "sm")),
				),
			),
			menu,
		)),
	}
}

// Bindings wires trigger and menu clicks plus keyboard navigation.
func (d *Dropdown) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("trigger", dom.EventClick, func(ev *dom.Event) {
			ev.PreventDefault()
			ev.StopPropagation()
			d.Toggle()
		}),
		listeners.OnKey("menu", dom.EventClick, func(ev *dom.Event) {
			if i := d.itemAt(ev.Target); i >= 0 {
				d.Choose(i)
			}
		}),
		listeners.OnHost(dom.EventKeyDown, d.handleKey),
	}
}

// AttributeChanged keeps the overlay registry and events in step with the
// open attribute, whichever surface changed it.
func (d *Dropdown) AttributeChanged(name string, old, value attrs.Value) {
	if name != "open" || old.Present == value.Present {
		return
	}
	if value.Present {
		d.focusFirst = true
		d.RegisterOverlay()
		d.Emit(EventPopinOpen, nil)
		return
	}
	d.focusFirst = false
	d.UnregisterOverlay()
	d.Emit(EventPopinClose, nil)
}

// DidRender focuses the first enabled item after opening.
func (d *Dropdown) DidRender(render.Pass) {
	if !d.focusFirst || !d.IsOpen() {
		return
	}
	d.focusFirst = false
	d.Runtime().Focus().FocusFirst(d.itemScope())
}

func (d *Dropdown) handleKey(ev *dom.Event) {
	if !d.IsOpen() {
		return
	}
	fm := d.Runtime().Focus()
	switch {
	case ev.Key == KeyEscape:
		ev.StopPropagation()
		d.Close()
		d.FocusKey("trigger")
	case ev.Key == KeyArrowDown:
		ev.PreventDefault()
		fm.MoveFocus(d.itemScope(), 1)
	case ev.Key == KeyArrowUp:
		ev.PreventDefault()
		fm.MoveFocus(d.itemScope(), -1)
	case isActivationKey(ev.Key):
		ev.PreventDefault()
		if i := d.focusedItem(); i >= 0 {
			d.Choose(i)
		}
	}
}

func (d *Dropdown) itemScope() focus.Scope {
	return focus.Scope{Root: d.Find("menu"), Match: func(n *dom.Node) bool {
		return n.HasClass("popin-item") && !n.HasClass("disabled")
	}}
}

func (d *Dropdown) focusedItem() int {
	return d.itemAt(d.Runtime().Focus().Focused())
}

// itemAt returns the index of the item containing n, or -1.
func (d *Dropdown) itemAt(n *dom.Node) int {
	menu := d.Find("menu")
	if menu == nil || !menu.Contains(n) {
		return -1
	}
	for ; n != nil && n != menu; n = n.Parent() {
		if rest, ok := strings.CutPrefix(n.Key(), "item-"); ok {
			if i, err := strconv.Atoi(rest); err == nil && i < len(d.items) {
				return i
			}
		}
	}
	return -1
}

func itemKey(i int) string { return "item-" + strconv.Itoa(i) }

// IsOpen reports whether the menu is open.
func (d *Dropdown) IsOpen() bool { return d.State().Bool("open") }

// Exclusive reports true: at most one dropdown is open at a time.
func (d *Dropdown) Exclusive() bool { return true }

// Open opens the menu. Disabled dropdowns stay closed.
func (d *Dropdown) Open() {
	if d.State().Bool("disabled") {
		return
	}
	d.ToggleAttribute("open", true)
}

// Close closes the menu. Closing a closed menu is a no-op.
func (d *Dropdown) Close() error {
	d.ToggleAttribute("open", false)
	return nil
}

// Toggle opens a closed menu and closes an open one.
func (d *Dropdown) Toggle() {
	if d.IsOpen() {
		d.Close()
	} else {
		d.Open()
	}
}

// Choose activates item i: it emits EventPopinItemClick and closes the
// menu unless the item keeps it open. Disabled items are ignored.
func (d *Dropdown) Choose(i int) {
	if i < 0 || i >= len(d.items) || d.items[i].Disabled {
		return
	}
	item := d.items[i]
	d.Emit(EventPopinItemClick, ItemClick{Action: item.Action, Href: item.Href, Text: item.Text})
	if item.Action != ActionKeepOpen {
		d.Close()
	}
}

// Items returns the menu items.
func (d *Dropdown) Items() []MenuItem { return d.items }

// SetItems replaces the menu items.
func (d *Dropdown) SetItems(items ...MenuItem) {
	d.items = items
	d.Invalidate()
}

// SetVariant sets the trigger's colour variant.
func (d *Dropdown) SetVariant(variant string) { d.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (d *Dropdown) SetSize(size string) { d.SetAttribute("size", size) }

// SetPosition places the menu relative to the trigger.
func (d *Dropdown) SetPosition(position string) { d.SetAttribute("position", position) }

// SetTriggerIcon sets the trigger icon name.
func (d *Dropdown) SetTriggerIcon(icon string) { d.SetAttribute("trigger-icon", icon) }

// SetTriggerText sets the trigger label.
func (d *Dropdown) SetTriggerText(text string) { d.SetAttribute("trigger-text", text) }

// SetDisabled toggles the disabled attribute. Disabling closes the menu.
func (d *Dropdown) SetDisabled(disabled bool) {
	d.ToggleAttribute("disabled", disabled)
	if disabled {
		d.Close()
	}
}
