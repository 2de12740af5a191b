package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/render"
)

func TestNewRuntimeDefaults(t *testing.T) {
	rt := core.NewRuntime(context.Background(), core.Options{})
	defer rt.Teardown()

	assert.NotNil(t, rt.Loop())
	assert.NotNil(t, rt.Document().Body())
	assert.Equal(t, core.DefaultTiming(), rt.Timing())
	assert.Equal(t, 0, rt.Overlays().Len())

	theme, ok := rt.Document().Root().Attribute("data-theme")
	assert.True(t, ok)
	assert.Equal(t, "light", theme)
}

func TestTimingKeepsOverrides(t *testing.T) {
	rt := core.NewRuntime(context.Background(), core.Options{
		Timing:        core.Timing{ToastDuration: time.Second},
		ReentrancyCap: render.DefaultReentrancyCap + 2,
	})
	defer rt.Teardown()

	timing := rt.Timing()
	assert.Equal(t, time.Second, timing.ToastDuration)
	assert.Equal(t, 300*time.Millisecond, timing.ToastRemovalDelay)
	assert.Equal(t, 500*time.Millisecond, timing.TooltipShowDelay)
	assert.Equal(t, 100*time.Millisecond, timing.TooltipHideDelay)
}

func TestTimingOffMeansZero(t *testing.T) {
	rt := core.NewRuntime(context.Background(), core.Options{
		Timing: core.Timing{ToastDuration: core.Off, TooltipShowDelay: core.Off},
	})
	defer rt.Teardown()

	timing := rt.Timing()
	assert.Zero(t, timing.ToastDuration)
	assert.Zero(t, timing.TooltipShowDelay)
	assert.Equal(t, 300*time.Millisecond, timing.ToastRemovalDelay)
}
