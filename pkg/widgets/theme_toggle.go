package widgets

import (
	"context"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/theme"
)

var themeToggleSchema = attrs.NewSchema(
	attrs.Enum("variant", "link", buttonVariants...),
	attrs.Enum("size", "md", "xs", "sm", "md", "lg"),
	attrs.String("title", "Toggle theme"),
)

// ThemeToggle switches the runtime theme between light and dark
// (dt-theme-toggle). Its icon follows the theme however it changes.
type ThemeToggle struct {
	*core.Instance
	unsubscribe func()
}

// NewThemeToggle creates an unmounted theme toggle.
func NewThemeToggle(rt *core.Runtime) *ThemeToggle {
	t := &ThemeToggle{}
	t.Instance = rt.NewInstance(t)
	return t
}

// Tag returns dt-theme-toggle.
func (t *ThemeToggle) Tag() string { return "dt-theme-toggle" }

// Schema returns the observed attributes.
func (t *ThemeToggle) Schema() *attrs.Schema { return themeToggleSchema }

// Render builds the toggle button for the current theme.
func (t *ThemeToggle) Render(state attrs.Snapshot) []*dom.Node {
	current := t.Runtime().Theme().Current()
	icon := "moon"
	if current == theme.BrightnessDark {
		icon = "sun"
	}
	title := state.String("title")
	return []*dom.Node{
		dom.El("button", dom.Key("toggle"),
			dom.Class("btn", "btn-"+state.String("variant"), unless(state.String("size"), "md", "btn-"), "theme-toggle"),
			dom.Attribute("type", "button"),
			dom.Attribute("title", title),
			dom.Attribute("aria-label", title),
			dom.Attribute("data-current", string(current)),
			dom.Children(dom.El("dt-icon", dom.Key("icon"), dom.Attribute("name", icon))),
		),
	}
}

// Bindings wires the toggle button.
func (t *ThemeToggle) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("toggle", dom.EventClick, func(*dom.Event) { t.Toggle(context.Background()) }),
	}
}

// DidMount follows theme changes made anywhere in the runtime.
func (t *ThemeToggle) DidMount() {
	t.unsubscribe = t.Runtime().Theme().Subscribe(func(b theme.Brightness) {
		t.Invalidate()
		t.Emit(EventThemeChange, b)
	})
}

// WillUnmount stops following the theme.
func (t *ThemeToggle) WillUnmount() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}

// Toggle flips the theme and returns the new one. The switch applies even
// when it cannot be persisted; the theme manager reports that failure.
func (t *ThemeToggle) Toggle(ctx context.Context) theme.Brightness {
	b, err := t.Runtime().Theme().Toggle(ctx)
	if err != nil {
		t.Logger().Warn("theme switched but not persisted")
	}
	return b
}

// SetVariant sets the colour variant.
func (t *ThemeToggle) SetVariant(variant string) { t.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (t *ThemeToggle) SetSize(size string) { t.SetAttribute("size", size) }

// SetTitle sets the accessible title.
func (t *ThemeToggle) SetTitle(title string) { t.SetAttribute("title", title) }
