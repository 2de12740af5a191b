package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/dtkit/pkg/listeners"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/widgets"
)

func run(t *testing.T, name string) *Result {
	t.Helper()
	sc, ok := Lookup(name)
	require.True(t, ok, name)
	res, err := Run(sc, dttest.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Problems)
	return res
}

func events(res *Result) []string {
	out := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		out[i] = e.Event
	}
	return out
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"checkbox", "dropdown", "modal", "toast", "tooltip"}, Names())
	_, ok := Lookup("carousel")
	assert.False(t, ok)
}

func TestCheckboxScenario(t *testing.T) {
	res := run(t, "checkbox")
	require.Len(t, res.Entries, 3)
	assert.Equal(t, widgets.CheckboxChange{Checked: true, State: listeners.Checked}, res.Entries[0].Detail)
	assert.Equal(t, widgets.CheckboxChange{Checked: false, State: listeners.Unchecked}, res.Entries[1].Detail)
	assert.Equal(t, widgets.CheckboxChange{Checked: true, State: listeners.Checked}, res.Entries[2].Detail)
	assert.Contains(t, res.Markup, "Enable notifications")
}

func TestDropdownScenario(t *testing.T) {
	res := run(t, "dropdown")
	assert.Equal(t, []string{
		widgets.EventPopinOpen,
		widgets.EventPopinClose,
		widgets.EventPopinOpen,
		widgets.EventPopinClose,
	}, events(res))
}

func TestModalScenario(t *testing.T) {
	res := run(t, "modal")
	assert.Equal(t, []string{
		widgets.EventModalOpen,
		widgets.EventModalOpen,
		widgets.EventModalClose,
		widgets.EventModalClose,
	}, events(res))
	assert.NotContains(t, res.Markup, "General preferences")
}

func TestToastScenario(t *testing.T) {
	res := run(t, "toast")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, widgets.EventToastDismiss, res.Entries[0].Event)
	assert.Equal(t, 5*time.Second, res.Entries[0].At)
	assert.NotContains(t, res.Markup, "dt-toast")
}

func TestTooltipScenario(t *testing.T) {
	res := run(t, "tooltip")
	require.Len(t, res.Entries, 2)
	assert.Equal(t, widgets.EventTooltipShow, res.Entries[0].Event)
	assert.Equal(t, 500*time.Millisecond, res.Entries[0].At)
	assert.Equal(t, widgets.EventTooltipHide, res.Entries[1].Event)
	assert.Equal(t, 600*time.Millisecond, res.Entries[1].At)
}

func TestEntryString(t *testing.T) {
	e := Entry{At: 5 * time.Second, Component: "dt-toast", Event: widgets.EventToastDismiss}
	assert.Contains(t, e.String(), "dt-toast-dismiss")
	assert.Contains(t, e.String(), "+5s")
}
