package widgets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/widgets"
)

func TestButtonClick(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	b := widgets.NewButton(tester.Runtime(), "Save")
	clicks := recordEvents(b, widgets.EventButtonClick)
	require.NoError(t, tester.Mount(b))

	require.NoError(t, tester.Click(dttest.ByText("Save")))
	b.Click()
	assert.Len(t, *clicks, 2)

	b.SetDisabled(true)
	tester.Pump()
	b.Click()
	assert.Len(t, *clicks, 2)
	assert.True(t, tester.Find(dttest.ByKey("button")).First().HasAttribute("disabled"))
}

func TestButtonHrefRendersLink(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	b := widgets.NewButton(tester.Runtime(), "Docs")
	b.SetHref("/docs")
	b.SetVariant("outline-primary")
	clicks := recordEvents(b, widgets.EventButtonClick)
	require.NoError(t, tester.Mount(b))

	n := tester.Find(dttest.ByKey("button")).First()
	assert.Equal(t, "a", n.Tag())
	assert.True(t, n.HasClass("btn-outline-primary"))
	assert.False(t, n.HasAttribute("type"))

	b.Click()
	require.Len(t, *clicks, 1)
	assert.Equal(t, widgets.ButtonClick{Href: "/docs"}, (*clicks)[0].Detail)
}

func TestButtonSetLabel(t *testing.T) {
	tester := dttest.NewTesterWithT(t)
	b := widgets.NewButton(tester.Runtime(), "Save")
	require.NoError(t, tester.Mount(b))

	b.SetLabel("Save")
	tester.Pump()
	assert.Equal(t, 1, b.RenderCount())

	b.SetLabel("Saved")
	tester.Pump()
	assert.Equal(t, 2, b.RenderCount())
	assert.True(t, tester.Find(dttest.ByText("Saved")).Exists())
	assert.Equal(t, "Saved", b.Label())
}
