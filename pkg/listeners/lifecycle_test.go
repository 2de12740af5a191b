package listeners

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
)

func renderInto(host *dom.Node) {
	host.ReplaceChildren(
		dom.El("div", dom.Key("container"),
			dom.Children(dom.El("span", dom.Key("switch"))),
		),
	)
}

// TestRebindIsIdempotent verifies that N renders and N rebinds leave exactly
// one active binding per logical control.
func TestRebindIsIdempotent(t *testing.T) {
	doc := dom.NewDocument()
	host := dom.El("dt-test")
	doc.Body().AppendChild(host)

	calls := 0
	l := New(errors.NewRecorder(), "dt-test")
	l.BindOnMount(host, doc.Root(),
		OnKey("container", dom.EventClick, func(*dom.Event) { calls++ }),
	)

	for i := 0; i < 5; i++ {
		renderInto(host)
		l.Rebind(host)
		l.Rebind(host)
	}

	assert.Equal(t, 1, l.ActiveCount())
	host.FindKey("switch").Dispatch(dom.NewEvent(dom.EventClick))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 5, l.Created())
}

// TestRebindKeepsUnchangedNodes verifies that a rebind without a render does
// not recreate bindings.
func TestRebindKeepsUnchangedNodes(t *testing.T) {
	host := dom.El("dt-test")
	renderInto(host)
	l := New(nil, "dt-test")
	l.BindOnMount(host, nil, OnKey("container", dom.EventClick, func(*dom.Event) {}))
	l.Rebind(host)
	l.Rebind(host)
	assert.Equal(t, 1, l.Created())
	assert.Equal(t, 1, host.FindKey("container").ListenerCount(dom.EventClick))
}

// TestMissingKeyDropsBinding verifies bindings follow conditional nodes.
func TestMissingKeyDropsBinding(t *testing.T) {
	host := dom.El("dt-test")
	l := New(nil, "dt-test")
	l.BindOnMount(host, nil, OnKey("close", dom.EventClick, func(*dom.Event) {}))

	host.ReplaceChildren(dom.El("button", dom.Key("close")))
	l.Rebind(host)
	assert.Equal(t, 1, l.ActiveCount())

	host.ReplaceChildren()
	l.Rebind(host)
	assert.Equal(t, 0, l.ActiveCount())
}

// TestHostAndDocumentBindings verifies mount-time targets and their removal.
func TestHostAndDocumentBindings(t *testing.T) {
	doc := dom.NewDocument()
	host := dom.El("dt-test")
	doc.Body().AppendChild(host)

	l := New(nil, "dt-test")
	l.BindOnMount(host, doc.Root(),
		OnHost(dom.EventKeyDown, func(*dom.Event) {}),
		OnDocument(dom.EventClick, func(*dom.Event) {}),
	)
	l.BindOnMount(host, doc.Root(), OnHost(dom.EventClick, func(*dom.Event) {}))

	assert.Equal(t, 2, l.ActiveCount())
	assert.Equal(t, 1, host.ListenerCount(""))
	assert.Equal(t, 1, doc.Root().ListenerCount(""))

	l.UnbindAll()
	l.UnbindAll()
	assert.Equal(t, 0, l.ActiveCount())
	assert.Equal(t, 0, host.ListenerCount(""))
	assert.Equal(t, 0, doc.Root().ListenerCount(""))
	assert.False(t, l.Mounted())
}

// TestHandlerPanicIsRecovered verifies a failing handler is reported and the
// event keeps propagating.
func TestHandlerPanicIsRecovered(t *testing.T) {
	doc := dom.NewDocument()
	host := dom.El("dt-test")
	doc.Body().AppendChild(host)
	rec := errors.NewRecorder()

	reached := false
	doc.Root().AddEventListener(dom.EventClick, func(*dom.Event) { reached = true }, false)

	l := New(rec, "dt-test")
	l.BindOnMount(host, doc.Root(), OnHost(dom.EventClick, func(*dom.Event) { panic("handler") }))
	host.Dispatch(dom.NewEvent(dom.EventClick))

	assert.True(t, reached)
	require.Len(t, rec.Panics(), 1)
	assert.Equal(t, "listeners.click", rec.Panics()[0].Op)
	assert.Equal(t, "dt-test", rec.Panics()[0].Component)
}

type fakeToggle struct {
	state     ToggleState
	disabled  bool
	events    []ToggleState
	committed []ToggleState
	toggle    *Toggle
	reenter   bool
}

func (f *fakeToggle) ToggleState() ToggleState { return f.state }
func (f *fakeToggle) ToggleDisabled() bool { return f.disabled }

func (f *fakeToggle) CommitToggle(next ToggleState) {
	f.state = next
	f.committed = append(f.committed, next)
}

func (f *fakeToggle) ToggleCommitted(next ToggleState) {
	// The attribute is committed before the event goes out.
	if f.state != next {
		panic("event dispatched before commit")
	}
	f.events = append(f.events, next)
	if f.reenter {
		f.toggle.Run(f)
	}
}

func TestToggleTransitions(t *testing.T) {
	assert.Equal(t, Checked, Unchecked.Next())
	assert.Equal(t, Unchecked, Checked.Next())
	assert.Equal(t, Checked, Indeterminate.Next())
	for _, s := range []ToggleState{Unchecked, Checked} {
		assert.Equal(t, s, s.Next().Next())
	}
}

func TestToggleRun(t *testing.T) {
	g := &Toggle{}
	f := &fakeToggle{toggle: g}

	next, ok := g.Run(f)
	require.True(t, ok)
	assert.Equal(t, Checked, next)
	assert.Equal(t, []ToggleState{Checked}, f.events)

	f.disabled = true
	_, ok = g.Run(f)
	assert.False(t, ok)
	assert.Len(t, f.events, 1)
}

func TestToggleIgnoresReentrantRun(t *testing.T) {
	g := &Toggle{}
	f := &fakeToggle{toggle: g, reenter: true}
	g.Run(f)
	assert.Equal(t, []ToggleState{Checked}, f.committed)
	assert.False(t, g.Active())
}
