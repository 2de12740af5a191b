package widgets_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/dom"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/widgets"
)

func mountTooltip(t *testing.T) (*dttest.Tester, *widgets.Tooltip) {
	t.Helper()
	tester := dttest.NewTesterWithT(t)
	tip := widgets.NewTooltip(tester.Runtime(), "Copy to clipboard", dom.El("span", dom.Key("label"), dom.Text("Copy")))
	require.NoError(t, tester.Mount(tip))
	return tester, tip
}

func bubbleShown(tester *dttest.Tester) bool {
	return tester.Find(dttest.ByKey("bubble")).First().HasClass("show")
}

func TestTooltipShowAndHideDelays(t *testing.T) {
	tester, tip := mountTooltip(t)
	shown := recordEvents(tip, widgets.EventTooltipShow)
	hidden := recordEvents(tip, widgets.EventTooltipHide)
	assert.Equal(t, "Copy to clipboard", tester.Find(dttest.ByKey("bubble")).First().Text())

	require.NoError(t, tester.Hover(dttest.ByKey("trigger")))
	tester.Advance(499 * time.Millisecond)
	assert.False(t, tip.Visible())

	tester.Advance(time.Millisecond)
	assert.True(t, tip.Visible())
	assert.True(t, bubbleShown(tester))
	assert.Len(t, *shown, 1)

	require.NoError(t, tester.Unhover(dttest.ByKey("trigger")))
	tester.Advance(99 * time.Millisecond)
	assert.True(t, tip.Visible())
	tester.Advance(time.Millisecond)
	assert.False(t, tip.Visible())
	assert.False(t, bubbleShown(tester))
	assert.Len(t, *hidden, 1)
	v, _ := tester.Find(dttest.ByKey("bubble")).First().Attribute("aria-hidden")
	assert.Equal(t, "true", v)
}

// TestTooltipLeaveCancelsPendingShow verifies that leaving before the delay
// elapses keeps the bubble hidden.
func TestTooltipLeaveCancelsPendingShow(t *testing.T) {
	tester, tip := mountTooltip(t)
	shown := recordEvents(tip, widgets.EventTooltipShow)

	require.NoError(t, tester.Hover(dttest.ByKey("trigger")))
	tester.Advance(200 * time.Millisecond)
	require.NoError(t, tester.Unhover(dttest.ByKey("trigger")))
	tester.Advance(time.Second)

	assert.False(t, tip.Visible())
	assert.Empty(t, *shown)
}

func TestTooltipReenterKeepsBubble(t *testing.T) {
	tester, tip := mountTooltip(t)
	require.NoError(t, tester.Hover(dttest.ByKey("trigger")))
	tester.Advance(500 * time.Millisecond)
	require.True(t, tip.Visible())

	require.NoError(t, tester.Unhover(dttest.ByKey("trigger")))
	tester.Advance(50 * time.Millisecond)
	require.NoError(t, tester.Hover(dttest.ByKey("trigger")))
	tester.Advance(time.Second)
	assert.True(t, tip.Visible())
}

func TestTooltipFocusAndBlur(t *testing.T) {
	tester, tip := mountTooltip(t)
	tip.SetDelay(200 * time.Millisecond)
	tester.Pump()

	require.NoError(t, tester.FocusOn(dttest.ByKey("trigger")))
	tester.Advance(200 * time.Millisecond)
	assert.True(t, tip.Visible())

	tester.Runtime().Focus().Blur()
	tester.Advance(100 * time.Millisecond)
	assert.False(t, tip.Visible())
}

func TestTooltipTouchToggles(t *testing.T) {
	tester, tip := mountTooltip(t)
	require.NoError(t, tester.Touch(dttest.ByKey("label")))
	tester.Advance(500 * time.Millisecond)
	assert.True(t, tip.Visible())

	require.NoError(t, tester.Touch(dttest.ByKey("label")))
	tester.Advance(100 * time.Millisecond)
	assert.False(t, tip.Visible())
}

func TestTooltipUnmountCancelsPendingShow(t *testing.T) {
	tester, tip := mountTooltip(t)
	shown := recordEvents(tip, widgets.EventTooltipShow)
	require.NoError(t, tester.Hover(dttest.ByKey("trigger")))
	tip.Unmount()

	tester.Advance(time.Second)
	assert.False(t, tip.Visible())
	assert.Empty(t, *shown)
	assert.Equal(t, 0, tip.Timers().Pending())
}

func TestTooltipAttributes(t *testing.T) {
	tester, tip := mountTooltip(t)
	tip.SetPosition("left")
	tip.SetTheme("light")
	tip.SetText("Copied")
	tester.Pump()

	bubble := tester.Find(dttest.ByKey("bubble")).First()
	assert.True(t, bubble.HasClass("left"))
	assert.True(t, bubble.HasClass("light"))
	assert.Equal(t, "Copied", bubble.Text())
}
