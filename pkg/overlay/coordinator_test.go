package overlay

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
)

type fakeOverlay struct {
	name   string
	c      *Coordinator
	region *dom.Node
	closes int
	err    error
	panics bool
}

func (f *fakeOverlay) Tag() string { return f.name }

func (f *fakeOverlay) Close() error {
	f.closes++
	if f.panics {
		panic("close exploded")
	}
	if f.err != nil {
		return f.err
	}
	f.c.RegisterClose(f)
	return nil
}

func (f *fakeOverlay) Contains(target *dom.Node) bool {
	return f.region != nil && f.region.Contains(target)
}

func newCoordinator() (*Coordinator, *errors.Recorder) {
	rec := errors.NewRecorder()
	return New(Options{Errors: rec}), rec
}

func newFake(c *Coordinator, name string) *fakeOverlay {
	return &fakeOverlay{name: name, c: c, region: dom.El("div")}
}

// TestExclusiveScenario verifies the A, B, Escape sequence on dropdowns.
func TestExclusiveScenario(t *testing.T) {
	c, _ := newCoordinator()
	a := newFake(c, "A")
	b := newFake(c, "B")

	c.RegisterOpen(a, true)
	assert.Equal(t, []Overlay{a}, c.Open())

	c.RegisterOpen(b, true)
	assert.Equal(t, 1, a.closes)
	assert.Equal(t, []Overlay{b}, c.Open())
	assert.Equal(t, 1, c.OpenCount(true))

	assert.True(t, c.HandleEscape())
	assert.Equal(t, 1, b.closes)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.HandleEscape())
}

// TestModalsStack verifies non-exclusive overlays stack and Escape closes
// only the topmost.
func TestModalsStack(t *testing.T) {
	c, _ := newCoordinator()
	m1 := newFake(c, "m1")
	m2 := newFake(c, "m2")
	menu := newFake(c, "menu")

	c.RegisterOpen(m1, false)
	c.RegisterOpen(m2, false)
	c.RegisterOpen(menu, true)
	assert.Same(t, m2, c.Topmost())
	assert.Equal(t, 0, m1.closes)

	// The exclusive menu goes first.
	c.HandleEscape()
	assert.Equal(t, 1, menu.closes)
	assert.Equal(t, 2, c.Len())

	c.HandleEscape()
	assert.Equal(t, 1, m2.closes)
	assert.Equal(t, 0, m1.closes)
	assert.Same(t, m1, c.Topmost())
}

func TestRedundantCallsAreNoops(t *testing.T) {
	c, _ := newCoordinator()
	a := newFake(c, "A")

	c.RegisterClose(a)
	c.RegisterOpen(a, true)
	c.RegisterOpen(a, true)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, a.closes)

	c.RegisterClose(a)
	c.RegisterClose(a)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Topmost())
}

// TestCloseFailureKeepsRegistryConsistent verifies a failing close is
// reported and the entry still leaves the registry.
func TestCloseFailureKeepsRegistryConsistent(t *testing.T) {
	c, rec := newCoordinator()
	broken := newFake(c, "broken")
	broken.err = fmt.Errorf("animation stuck")
	exploding := newFake(c, "exploding")
	exploding.panics = true
	next := newFake(c, "next")

	c.RegisterOpen(broken, true)
	c.RegisterOpen(exploding, true)
	assert.Equal(t, []Overlay{exploding}, c.Open())

	c.RegisterOpen(next, true)
	assert.Equal(t, []Overlay{next}, c.Open())

	diags := rec.DiagnosticsWithCode(errors.CodeCloseFailed)
	require.Len(t, diags, 2)
	assert.Equal(t, "broken", diags[0].Component)
	assert.ErrorContains(t, diags[0].Err, "animation stuck")
	assert.Equal(t, "exploding", diags[1].Component)
	require.Len(t, rec.Panics(), 1)
}

func TestOutsideClick(t *testing.T) {
	c, _ := newCoordinator()
	doc := dom.NewDocument()
	c.Attach(doc.Root())

	menu := newFake(c, "menu")
	doc.Body().AppendChild(menu.region)
	item := dom.El("button")
	menu.region.AppendChild(item)
	modal := newFake(c, "modal")

	c.RegisterOpen(modal, false)
	c.RegisterOpen(menu, true)

	item.Dispatch(dom.NewEvent(dom.EventClick))
	assert.True(t, c.IsOpen(menu))

	outside := dom.El("p")
	doc.Body().AppendChild(outside)
	outside.Dispatch(dom.NewEvent(dom.EventClick))
	assert.False(t, c.IsOpen(menu))
	assert.True(t, c.IsOpen(modal))
	assert.False(t, c.AnyExclusiveOpen())
}

func TestDocumentEscapeListener(t *testing.T) {
	c, _ := newCoordinator()
	doc := dom.NewDocument()
	c.Attach(doc.Root())
	modal := newFake(c, "modal")
	c.RegisterOpen(modal, false)

	ev := dom.KeyEvent("Escape")
	doc.Body().Dispatch(ev)
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, 0, c.Len())

	c.Detach()
	assert.Equal(t, 0, doc.Root().ListenerCount(""))
}

func TestOnChangeAndClear(t *testing.T) {
	c, _ := newCoordinator()
	changes := 0
	c.OnChange(func() { changes++ })

	c.RegisterOpen(newFake(c, "a"), false)
	c.RegisterOpen(newFake(c, "b"), false)
	c.Clear()
	assert.Equal(t, 3, changes)
	assert.Equal(t, 0, c.Len())
}
