// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"strconv"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/listeners"
)

var counterSchema = attrs.NewSchema(
	attrs.Int("count", 0),
	attrs.String("label", "Count"),
)

// Counter displays a count and increments it on click.
type Counter struct {
	*core.Instance
	OnClick func(count int)
}

// NewCounter creates an unmounted counter.
func NewCounter(rt *core.Runtime) *Counter {
	c := &Counter{}
	c.Instance = rt.NewInstance(c)
	return c
}

func (c *Counter) Tag() string { return "test-counter" }

func (c *Counter) Schema() *attrs.Schema { return counterSchema }

func (c *Counter) Render(state attrs.Snapshot) []*dom.Node {
	return []*dom.Node{
		dom.El("span", dom.Key("label"), dom.Text(state.String("label"))),
		dom.El("button", dom.Key("increment"), dom.Class("counter"), dom.Text(strconv.Itoa(state.Int("count")))),
	}
}

func (c *Counter) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("increment", dom.EventClick, func(*dom.Event) {
			next := c.State().Int("count") + 1
			c.SetAttribute("count", strconv.Itoa(next))
			if c.OnClick != nil {
				c.OnClick(next)
			}
		}),
	}
}
