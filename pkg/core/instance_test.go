package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/attrs"
	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/listeners"
	"github.com/go-drift/dtkit/pkg/render"
	dttest "github.com/go-drift/dtkit/pkg/testing"
)

var trackerSchema = attrs.NewSchema(
	attrs.String("label", "none"),
	attrs.Bool("open"),
	attrs.Enum("size", "md", "sm", "md", "lg"),
)

type change struct {
	name       string
	old, value attrs.Value
}

// tracker is a component that records every hook the runtime calls.
type tracker struct {
	*core.Instance

	renders   []string
	changes   []change
	hooks     []string
	journal   *[]string
	clicks    int
	closes    int
	panicNow  bool
	exclusive bool
}

func newTracker(rt *core.Runtime) *tracker {
	p := &tracker{}
	p.Instance = rt.NewInstance(p)
	return p
}

func (p *tracker) Tag() string           { return "dt-tracker" }
func (p *tracker) Schema() *attrs.Schema { return trackerSchema }

func (p *tracker) Render(state attrs.Snapshot) []*dom.Node {
	if p.panicNow {
		panic("render exploded")
	}
	label := state.String("label")
	p.renders = append(p.renders, label)
	return []*dom.Node{
		dom.El("button", dom.Key("trigger"), dom.Text(label)),
		dom.If(state.Bool("open"), dom.El("div", dom.Key("panel"))),
	}
}

func (p *tracker) Bindings() []listeners.Spec {
	return []listeners.Spec{
		listeners.OnKey("trigger", dom.EventClick, func(*dom.Event) { p.clicks++ }),
	}
}

func (p *tracker) DidMount() { p.hooks = append(p.hooks, "mounted") }
func (p *tracker) WillUnmount() {
	p.hooks = append(p.hooks, "unmounting")
	if p.journal != nil {
		*p.journal = append(*p.journal, p.State().String("label"))
	}
}

func (p *tracker) DidRender(pass render.Pass) {
	p.hooks = append(p.hooks, "rendered")
}

func (p *tracker) AttributeChanged(name string, old, value attrs.Value) {
	p.changes = append(p.changes, change{name: name, old: old, value: value})
}

func (p *tracker) IsOpen() bool   { return p.State().Bool("open") }
func (p *tracker) Exclusive() bool { return p.exclusive }

func (p *tracker) Close() error {
	p.closes++
	p.RemoveAttribute("open")
	return nil
}

// TestMutationsCoalesceIntoOneRender verifies that several synchronous
// mutations produce a single pass reading the final values.
func TestMutationsCoalesceIntoOneRender(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))
	require.Equal(t, 1, p.RenderCount())

	p.SetAttribute("label", "a")
	p.SetAttribute("label", "b")
	p.SetAttribute("size", "LG")
	p.SetAttribute("open", "")
	p.SetAttribute("label", "final")
	assert.Equal(t, render.Scheduled, p.RenderState())
	tester.Pump()

	assert.Equal(t, 2, p.RenderCount())
	assert.Equal(t, []string{"none", "final"}, p.renders)
	pass, ok := p.LastPass()
	require.True(t, ok)
	assert.Equal(t, "lg", pass.Snapshot.String("size"))
	assert.True(t, pass.Snapshot.Bool("open"))
	assert.NotNil(t, p.Find("panel"))
	assert.Equal(t, render.Idle, p.RenderState())
}

func TestRedundantSetDoesNotRender(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))

	assert.True(t, p.SetAttribute("label", "x"))
	tester.Pump()
	assert.False(t, p.SetAttribute("label", "x"))
	tester.Pump()

	assert.Equal(t, 2, p.RenderCount())
	assert.Len(t, p.changes, 1)
}

func TestAttributeObserverAndHostMirror(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))

	p.SetAttribute("label", "hi")
	v, ok := p.Host().Attribute("label")
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	p.RemoveAttribute("label")
	assert.False(t, p.Host().HasAttribute("label"))
	require.Len(t, p.changes, 2)
	assert.Equal(t, change{name: "label", old: attrs.Absent, value: attrs.Present("hi")}, p.changes[0])
	assert.Equal(t, change{name: "label", old: attrs.Present("hi"), value: attrs.Absent}, p.changes[1])
}

func TestSetBeforeMountRendersOnceAtMount(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	p.SetAttribute("label", "early")
	tester.Pump()
	assert.Equal(t, 0, p.RenderCount())

	require.NoError(t, tester.Mount(p))
	assert.Equal(t, []string{"early"}, p.renders)
	assert.Equal(t, []string{"rendered", "mounted"}, p.hooks)
}

func TestMountAndUnmountAreIdempotent(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())

	assert.ErrorIs(t, p.Mount(nil), errors.ErrNoParent)
	require.NoError(t, tester.Mount(p))
	require.NoError(t, tester.Mount(p))
	assert.Len(t, tester.Body().Children(), 1)
	assert.Equal(t, 1, p.RenderCount())

	p.Unmount()
	p.Unmount()
	assert.Equal(t, core.PhaseUnmounted, p.Phase())
	assert.Equal(t, []string{"rendered", "mounted", "unmounting"}, p.hooks)
	assert.Empty(t, tester.Runtime().Instances())
}

func TestListenersRebindAcrossRenders(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))

	for _, label := range []string{"a", "b", "c"} {
		p.SetAttribute("label", label)
		tester.Pump()
	}
	require.NoError(t, tester.Click(dttest.ByKey("trigger")))

	assert.Equal(t, 1, p.clicks)
	assert.Equal(t, 1, p.Find("trigger").ListenerCount(dom.EventClick))
}

// TestUnmountCancelsEverything verifies that nothing the instance scheduled
// runs after it unmounts.
func TestUnmountCancelsEverything(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))

	fired := false
	p.After(5000*time.Millisecond, func() { fired = true })
	p.exclusive = true
	p.SetAttribute("open", "")
	p.RegisterOverlay()
	tester.Advance(10 * time.Millisecond)

	trigger := p.Find("trigger")
	require.NoError(t, tester.FocusOn(dttest.ByKey("trigger")))
	require.Same(t, trigger, tester.Focused())
	p.SetAttribute("label", "late")
	p.Unmount()
	tester.Advance(10 * time.Second)

	assert.False(t, fired)
	assert.Equal(t, 0, p.Timers().Pending())
	assert.Equal(t, 0, p.Listeners().ActiveCount())
	assert.False(t, tester.Runtime().Overlays().IsOpen(p))
	assert.Nil(t, tester.Focused())
	assert.Nil(t, p.Host().Parent())
	assert.Equal(t, 0, trigger.ListenerCount(""))
	assert.Equal(t, 2, p.RenderCount())
}

func TestOverlayRegistrationLocksScroll(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))
	root := tester.Document()

	p.RegisterOverlay()
	assert.True(t, root.HasAttribute(core.ScrollLockAttribute))

	tester.PressKey("Escape")
	assert.Equal(t, 1, p.closes)
	assert.False(t, tester.Runtime().Overlays().IsOpen(p))
	assert.False(t, root.HasAttribute(core.ScrollLockAttribute))
}

// TestOverlayFollowsMountState verifies the registry only holds mounted
// instances and picks up one that is already open when it mounts.
func TestOverlayFollowsMountState(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	overlays := tester.Runtime().Overlays()
	p := newTracker(tester.Runtime())
	p.exclusive = true

	p.SetAttribute("open", "")
	p.RegisterOverlay()
	assert.False(t, overlays.IsOpen(p))

	require.NoError(t, tester.Mount(p))
	assert.True(t, overlays.IsOpen(p))

	p.Unmount()
	assert.False(t, overlays.IsOpen(p))
	assert.True(t, p.IsOpen())

	require.NoError(t, tester.Mount(p))
	assert.True(t, overlays.IsOpen(p))
	assert.Equal(t, 1, overlays.Len())
}

func TestRenderPanicKeepsPreviousSubtree(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))
	before := p.Find("trigger")

	p.panicNow = true
	p.SetAttribute("label", "boom")
	tester.Pump()

	require.Len(t, tester.Errors().Panics(), 1)
	assert.Same(t, before, p.Find("trigger"))
	assert.Equal(t, 1, p.RenderCount())

	p.panicNow = false
	p.SetAttribute("label", "ok")
	tester.Pump()
	assert.Equal(t, "ok", p.Find("trigger").Text())
}

func TestEmitAndOn(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	a := newTracker(tester.Runtime())
	b := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(a))
	require.NoError(t, tester.Mount(b))

	var got []core.Event
	off := a.On("dt-change", func(e core.Event) { got = append(got, e) })

	a.Emit("dt-change", 42)
	b.Emit("dt-change", 7)
	off()
	a.Emit("dt-change", 43)

	require.Len(t, got, 1)
	assert.Same(t, a.Instance, got[0].Source)
	assert.Equal(t, 42, got[0].Detail)

	bubbled := 0
	tester.Body().AddEventListener("dt-change", func(*dom.Event) { bubbled++ }, false)
	b.Emit("dt-change", nil)
	assert.Equal(t, 1, bubbled)
}

func TestTeardownUnmountsNewestFirst(t *testing.T) {
	tester := dttest.NewTester(dttest.Options{})
	rt := tester.Runtime()
	var order []string
	var ids []string
	for _, label := range []string{"first", "second"} {
		p := newTracker(rt)
		p.journal = &order
		p.SetAttribute("label", label)
		require.NoError(t, tester.Mount(p))
		ids = append(ids, p.ID())
	}
	require.Len(t, rt.Instances(), 2)
	assert.Same(t, rt.Instances()[1], rt.Lookup(ids[1]))

	rt.Teardown()
	assert.Equal(t, []string{"second", "first"}, order)
	assert.Empty(t, rt.Instances())
	assert.Nil(t, rt.Lookup(ids[0]))
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase core.Phase
		want  string
	}{
		{core.PhaseUnmounted, "unmounted"},
		{core.PhaseMounting, "mounting"},
		{core.PhaseMounted, "mounted"},
		{core.PhaseRendering, "rendering"},
		{core.PhaseUnmounting, "unmounting"},
		{core.Phase(9), "Phase(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.phase.String())
	}
}

func TestFocusFollowsKeyAcrossRenders(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	require.NoError(t, tester.Mount(p))
	require.NoError(t, tester.FocusOn(dttest.ByKey("trigger")))
	before := tester.Focused()

	p.SetAttribute("label", "next")
	tester.Pump()

	require.NotNil(t, tester.Focused())
	assert.NotSame(t, before, tester.Focused())
	assert.Same(t, p.Find("trigger"), tester.Focused())
}

func TestInvalidateRendersWithoutAttributeChange(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	p := newTracker(tester.Runtime())
	p.Invalidate()
	tester.Pump()
	assert.Equal(t, 0, p.RenderCount())

	require.NoError(t, tester.Mount(p))
	p.Invalidate()
	p.Invalidate()
	tester.Pump()
	assert.Equal(t, 2, p.RenderCount())
}
