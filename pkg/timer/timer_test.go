package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/host"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func setup() (*host.Loop, *stepClock, *errors.Recorder) {
	clock := &stepClock{now: time.Unix(0, 0)}
	rec := errors.NewRecorder()
	return host.NewLoop(host.Options{Clock: clock, Errors: rec}), clock, rec
}

func TestFiresOnce(t *testing.T) {
	loop, clock, _ := setup()
	g := NewGroup(loop, nil, "dt-toast", nil)

	count := 0
	h := g.After(100*time.Millisecond, func() { count++ })
	assert.Equal(t, Pending, h.State())
	assert.Equal(t, clock.Now().Add(100*time.Millisecond), h.Deadline())

	loop.Advance(clock, 99*time.Millisecond)
	assert.Equal(t, 0, count)
	loop.Advance(clock, time.Second)
	assert.Equal(t, 1, count)
	assert.Equal(t, Fired, h.State())
	assert.Equal(t, 0, g.Pending())
}

func TestCancelIsIdempotent(t *testing.T) {
	loop, clock, _ := setup()
	g := NewGroup(loop, nil, "dt-toast", nil)

	fired := false
	h := g.After(time.Second, func() { fired = true })
	assert.True(t, g.Cancel(h))
	assert.False(t, g.Cancel(h))
	assert.False(t, g.Cancel(nil))

	loop.Advance(clock, 2*time.Second)
	assert.False(t, fired)
	assert.Equal(t, Cancelled, h.State())
	assert.Equal(t, 0, loop.PendingTimers())

	done := g.After(time.Millisecond, func() {})
	loop.Advance(clock, time.Millisecond)
	assert.False(t, g.Cancel(done))
	assert.Equal(t, Fired, done.State())
}

// TestUnmountCancelsTimers verifies a 5000ms dismiss timer never runs when its
// owner unmounts at 10ms.
func TestUnmountCancelsTimers(t *testing.T) {
	loop, clock, _ := setup()
	mounted := true
	g := NewGroup(loop, nil, "dt-toast", func() bool { return mounted })

	dismissed := false
	g.After(5000*time.Millisecond, func() { dismissed = true })
	g.After(300*time.Millisecond, func() {})

	loop.Advance(clock, 10*time.Millisecond)
	mounted = false
	assert.Equal(t, 2, g.CancelAll())

	loop.Advance(clock, 6*time.Second)
	assert.False(t, dismissed)
	assert.Equal(t, 0, loop.PendingTimers())

	late := g.After(time.Millisecond, func() { dismissed = true })
	assert.Equal(t, Cancelled, late.State())
}

// TestFireAfterOwnerGoneIsDropped verifies the fire-time mounted check.
func TestFireAfterOwnerGoneIsDropped(t *testing.T) {
	loop, clock, rec := setup()
	mounted := true
	g := NewGroup(loop, rec, "dt-tooltip", func() bool { return mounted })

	ran := false
	h := g.After(50*time.Millisecond, func() { ran = true })
	mounted = false

	loop.Advance(clock, time.Second)
	assert.False(t, ran)
	assert.Equal(t, Cancelled, h.State())
	assert.Equal(t, 1, g.Dropped())
	assert.Empty(t, rec.Diagnostics())
}

func TestActionPanicIsReported(t *testing.T) {
	loop, clock, rec := setup()
	g := NewGroup(loop, rec, "dt-toast", nil)
	g.After(time.Millisecond, func() { panic("dismiss failed") })

	loop.Advance(clock, time.Millisecond)
	require.Len(t, rec.Panics(), 1)
	assert.Equal(t, "timer.fire", rec.Panics()[0].Op)
	assert.Equal(t, "dt-toast", rec.Panics()[0].Component)
}
