package widgets

import (
	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/theme"
)

var cardSchema = attrs.NewSchema(
	attrs.Enum("variant", "default", append([]string{"default"}, Variants...)...),
	attrs.Enum("size", "md", Sizes...),
	attrs.String("header", ""),
	attrs.String("footer", ""),
	attrs.String("image", ""),
)

// Card is a content panel with optional image, header and footer
// (dt-card). Its body follows the runtime theme.
type Card struct {
	*core.Instance
	content     []*dom.Node
	unsubscribe func()
}

// NewCard creates an unmounted card.
func NewCard(rt *core.Runtime, content ...*dom.Node) *Card {
	c := &Card{content: content}
	c.Instance = rt.NewInstance(c)
	return c
}

// Tag returns dt-card.
func (c *Card) Tag() string { return "dt-card" }

// Schema returns the observed attributes.
func (c *Card) Schema() *attrs.Schema { return cardSchema }

// Render builds the card for the current theme.
func (c *Card) Render(state attrs.Snapshot) []*dom.Node {
	image := state.String("image")
	header := state.String("header")
	footer := state.String("footer")
	return []*dom.Node{
		dom.El("div", dom.Key("card"),
			dom.Class("card", unless(state.String("variant"), "default", "card-"), unless(state.String("size"), "md", "card-")),
			dom.Children(
				dom.If(image != "", dom.El("img", dom.Key("image"), dom.Class("card-image"),
					dom.Attribute("src", image), dom.Attribute("alt", "Card image"))),
				dom.If(header != "", dom.El("div", dom.Key("header"), dom.Class("card-header"), dom.Text(header))),
				dom.El("div", dom.Key("body"), dom.Class("card-body"),
					dom.Attribute("data-theme", string(c.Runtime().Theme().Current())),
					dom.Children(cloneAll(c.content)...)),
				dom.If(footer != "", dom.El("div", dom.Key("footer"), dom.Class("card-footer"), dom.Text(footer))),
			),
		),
	}
}

// Bindings returns none; cards are static.
func (c *Card) Bindings() []listeners.Spec { return nil }

// DidMount re-renders the card whenever the theme changes.
func (c *Card) DidMount() {
	c.unsubscribe = c.Runtime().Theme().Subscribe(func(theme.Brightness) { c.Invalidate() })
}

// WillUnmount stops following the theme.
func (c *Card) WillUnmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// SetContent replaces the card body.
func (c *Card) SetContent(nodes ...*dom.Node) {
	c.content = nodes
	c.Invalidate()
}

// SetVariant sets the colour variant.
func (c *Card) SetVariant(variant string) { c.SetAttribute("variant", variant) }

// SetSize sets sm, md or lg.
func (c *Card) SetSize(size string) { c.SetAttribute("size", size) }

// SetHeader sets the header text. Empty removes the header.
func (c *Card) SetHeader(header string) { c.SetAttribute("header", header) }

// SetFooter sets the footer text. Empty removes the footer.
func (c *Card) SetFooter(footer string) { c.SetAttribute("footer", footer) }

// SetImage sets the image URL. Empty removes the image.
func (c *Card) SetImage(image string) { c.SetAttribute("image", image) }
