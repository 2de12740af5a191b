package gallery

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/errors"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/theme"
	"github.com/go-drift/dtkit/pkg/widgets"
)

func newTestModel(t *testing.T) (*Model, *dttest.FakeClock, *errors.Recorder) {
	t.Helper()
	clock := dttest.NewFakeClock()
	rec := errors.NewRecorder()
	m, err := New(context.Background(), Options{Clock: clock, Errors: rec})
	require.NoError(t, err)
	t.Cleanup(m.Runtime().Teardown)
	return m, clock, rec
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestInitSchedulesTick(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.NotNil(t, m.Init())
	assert.Len(t, m.Runtime().Instances(), 5)
}

func TestCheckboxKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, runes("c"))
	assert.True(t, m.checkbox.Checked())
	press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.checkbox.Checked())
	assert.Equal(t, []string{
		"dt-checkbox dt-checkbox-change {Checked:true State:checked}",
		"dt-checkbox dt-checkbox-change {Checked:false State:unchecked}",
	}, m.Log())
}

func TestDropdownKeyboardFlow(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, runes("d"))
	require.True(t, m.menu.IsOpen())
	assert.Contains(t, m.View(), "> Edit")

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.View(), "> Delete")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.menu.IsOpen())
	assert.Contains(t, m.Log(), "dt-popin popin-item-click {Action:delete Href: Text:Delete}")
}

func TestEscapeClosesModal(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, runes("m"))
	require.True(t, m.modal.IsOpen())
	assert.Contains(t, m.View(), "dt-modal")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.modal.IsOpen())
	assert.Equal(t, 0, m.Runtime().Overlays().Len())
}

func TestTickFiresToastTimers(t *testing.T) {
	m, clock, _ := newTestModel(t)
	press(m, runes("t"))
	require.Len(t, m.toasts, 1)
	assert.Equal(t, 1, m.visibleToasts())

	clock.Advance(5 * time.Second)
	press(m, tickMsg(clock.Now()))
	assert.Equal(t, 0, m.visibleToasts())
	assert.Contains(t, m.Log(), "dt-toast dt-toast-dismiss")

	clock.Advance(300 * time.Millisecond)
	press(m, tickMsg(clock.Now()))
	assert.Empty(t, m.toasts)
}

func TestHoverTooltip(t *testing.T) {
	m, clock, _ := newTestModel(t)
	press(m, runes("h"))
	clock.Advance(500 * time.Millisecond)
	press(m, tickMsg(clock.Now()))
	assert.True(t, m.tooltip.Visible())

	press(m, runes("h"))
	clock.Advance(100 * time.Millisecond)
	press(m, tickMsg(clock.Now()))
	assert.False(t, m.tooltip.Visible())
}

func TestThemeKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, runes("l"))
	assert.Equal(t, theme.BrightnessDark, m.Runtime().Theme().Current())
	assert.Contains(t, m.View(), "theme dark")
	assert.Contains(t, m.Log(), "dt-theme-toggle theme-changed dark")
}

func TestQuitTearsDown(t *testing.T) {
	m, _, rec := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.Runtime().Instances())
	assert.Empty(t, rec.Panics())
}

func TestLogIsBounded(t *testing.T) {
	m, _, _ := newTestModel(t)
	for range 2 * maxLogLines {
		press(m, runes("c"))
	}
	assert.Len(t, m.Log(), maxLogLines)
	assert.Contains(t, m.View(), widgets.EventCheckboxChange)
}
