// Package gallery is the interactive component gallery behind "dtkit play".
// It drives a live runtime from a bubbletea program: key presses become DOM
// events and a periodic tick flushes the host loop so timers fire in real
// time.
package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/dtkit/pkg/core"
	"github.com/go-drift/dtkit/pkg/dom"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/host"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/theme"
	"github.com/go-drift/dtkit/pkg/widgets"
)

const maxLogLines = 8

// DefaultTick is how often the gallery flushes the loop.
const DefaultTick = 50 * time.Millisecond

// Options configures a gallery.
type Options struct {
	// Clock drives timers. Nil means the system clock.
	Clock  host.Clock
	Theme  *theme.Manager
	Errors errors.Handler
	Logger *logging.Logger
	Timing core.Timing
	// ReentrancyCap bounds re-entrant renders per component.
	ReentrancyCap int
	// Tick is the loop flush interval. Zero means DefaultTick.
	Tick time.Duration
}

type tickMsg time.Time

// Model is the gallery's bubbletea model.
type Model struct {
	rt   *core.Runtime
	loop *host.Loop
	tick time.Duration

	checkbox *widgets.Checkbox
	menu     *widgets.Dropdown
	modal    *widgets.Modal
	tooltip  *widgets.Tooltip
	toggle   *widgets.ThemeToggle
	toasts   []*widgets.Toast
	hovering bool

	log  []string
	keys keyMap
	help help.Model
}

// New creates the gallery and mounts its components. The loop checks that
// it is only used from the goroutine that creates the gallery, which must
// also run the bubbletea program.
func New(ctx context.Context, opts Options) (*Model, error) {
	loop := host.NewLoop(host.Options{Clock: opts.Clock, Errors: opts.Errors, CheckOwner: true})
	rt := core.NewRuntime(ctx, core.Options{
		Loop:          loop,
		Theme:         opts.Theme,
		Errors:        opts.Errors,
		Logger:        opts.Logger,
		ReentrancyCap: opts.ReentrancyCap,
		Timing:        opts.Timing,
	})
	m := &Model{
		rt:   rt,
		loop: loop,
		tick: opts.Tick,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	if m.tick <= 0 {
		m.tick = DefaultTick
	}

	m.checkbox = widgets.NewCheckbox(rt)
	m.checkbox.SetLabel("Enable notifications")
	m.menu = widgets.NewDropdown(rt,
		widgets.MenuItem{Text: "Edit", Action: "edit", Icon: "edit"},
		widgets.MenuItem{Text: "Duplicate", Action: "duplicate", Disabled: true},
		widgets.MenuItem{Text: "Delete", Action: "delete", Variant: "danger", Icon: "trash"},
	)
	m.menu.SetTriggerText("Actions")
	m.modal = widgets.NewModal(rt)
	m.modal.SetTitle("Confirm")
	m.modal.SetContent(dom.El("p", dom.Text("Discard unsaved changes?")))
	m.tooltip = widgets.NewTooltip(rt, "Copied!", dom.El("span", dom.Text("Copy")))
	m.toggle = widgets.NewThemeToggle(rt)

	body := rt.Document().Body()
	for _, c := range []interface{ Mount(*dom.Node) error }{m.checkbox, m.menu, m.modal, m.tooltip, m.toggle} {
		if err := c.Mount(body); err != nil {
			rt.Teardown()
			return nil, err
		}
	}
	for _, typ := range widgets.EventTypes {
		rt.Document().Root().AddEventListener(typ, m.record, false)
	}
	loop.Flush()
	return m, nil
}

func (m *Model) record(ev *dom.Event) {
	e, ok := ev.Detail.(*core.Event)
	if !ok {
		return
	}
	line := fmt.Sprintf("%s %s", e.Source.Tag(), e.Type)
	if e.Detail != nil {
		line += fmt.Sprintf(" %+v", e.Detail)
	}
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// Runtime returns the gallery's runtime.
func (m *Model) Runtime() *core.Runtime { return m.rt }

// Log returns the most recent component events, oldest first.
func (m *Model) Log() []string { return m.log }

func (m *Model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.flush()
		return m, m.scheduleTick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.rt.Teardown()
			m.loop.Flush()
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.flush()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Checkbox):
		m.checkbox.Toggle()
	case key.Matches(msg, m.keys.Dropdown):
		if n := m.menu.Find("trigger"); n != nil {
			n.Dispatch(dom.NewEvent(dom.EventClick))
		}
	case key.Matches(msg, m.keys.Modal):
		m.modal.Open()
	case key.Matches(msg, m.keys.Toast):
		t, err := widgets.ShowToast(m.rt, fmt.Sprintf("Toast #%d", len(m.toasts)+1), "info")
		if err == nil {
			m.toasts = append(m.toasts, t)
		}
	case key.Matches(msg, m.keys.Tooltip):
		m.hover()
	case key.Matches(msg, m.keys.Theme):
		if n := m.toggle.Find("toggle"); n != nil {
			n.Dispatch(dom.NewEvent(dom.EventClick))
		}
	case key.Matches(msg, m.keys.Up):
		m.pressKey(widgets.KeyArrowUp)
	case key.Matches(msg, m.keys.Down):
		m.pressKey(widgets.KeyArrowDown)
	case key.Matches(msg, m.keys.Enter):
		m.pressKey(widgets.KeyEnter)
	case key.Matches(msg, m.keys.Escape):
		m.pressKey(widgets.KeyEscape)
	}
}

// pressKey sends a keydown to the focused node, or the body.
func (m *Model) pressKey(k string) {
	target := m.rt.Focus().Focused()
	if target == nil {
		target = m.rt.Document().Body()
	}
	target.Dispatch(dom.KeyEvent(k))
}

func (m *Model) hover() {
	trigger := m.tooltip.Find("trigger")
	if trigger == nil {
		return
	}
	typ := dom.EventMouseEnter
	if m.hovering {
		typ = dom.EventMouseLeave
	}
	m.hovering = !m.hovering
	ev := dom.NewEvent(typ)
	ev.Bubbles = false
	trigger.Dispatch(ev)
}

// flush runs due loop work and forgets removed toasts.
func (m *Model) flush() {
	m.loop.Flush()
	live := m.toasts[:0]
	for _, t := range m.toasts {
		if t.Mounted() {
			live = append(live, t)
		}
	}
	m.toasts = live
}
