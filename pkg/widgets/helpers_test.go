package widgets_test

import (
	"github.com/go-drift/dtkit/pkg/core"
)

type emitter interface {
	On(typ string, fn func(core.Event)) (off func())
}

// recordEvents collects the events of type typ that c emits.
func recordEvents(c emitter, typ string) *[]core.Event {
	var got []core.Event
	c.On(typ, func(e core.Event) { got = append(got, e) })
	return &got
}
