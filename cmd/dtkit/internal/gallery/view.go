package gallery

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/go-drift/dtkit/pkg/listeners"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed"))
	labelStyle  = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#94a3b8")).
			Padding(0, 1)
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("dtkit play"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  theme %s", m.rt.Theme().Current())))
	b.WriteString("\n\n")

	rows := []string{
		row("checkbox", m.checkboxState()),
		row("dropdown", m.menuState()),
		row("modal", onOff(m.modal.IsOpen(), "open", "closed")),
		row("tooltip", onOff(m.tooltip.Visible(), "visible", "hidden")),
		row("toasts", fmt.Sprintf("%d showing", m.visibleToasts())),
		row("overlays", m.overlayState()),
	}
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	if len(m.log) == 0 {
		b.WriteString(dimStyle.Render("no events yet"))
	} else {
		for _, line := range m.log {
			b.WriteString(eventStyle.Render(line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func onOff(on bool, yes, no string) string {
	if on {
		return activeStyle.Render(yes)
	}
	return no
}

func (m *Model) checkboxState() string {
	switch m.checkbox.ToggleState() {
	case listeners.Checked:
		return activeStyle.Render("[x]")
	case listeners.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func (m *Model) menuState() string {
	if !m.menu.IsOpen() {
		return "closed"
	}
	focused := m.rt.Focus().Focused()
	var items []string
	for i, item := range m.menu.Items() {
		text := item.Text
		switch {
		case item.Disabled:
			text = dimStyle.Render(text)
		case focused != nil && focused.Key() == fmt.Sprintf("item-%d", i) && m.menu.Contains(focused):
			text = activeStyle.Render("> " + text)
		}
		items = append(items, text)
	}
	return activeStyle.Render("open") + "  " + strings.Join(items, " | ")
}

func (m *Model) visibleToasts() int {
	n := 0
	for _, t := range m.toasts {
		if t.Visible() {
			n++
		}
	}
	return n
}

func (m *Model) overlayState() string {
	open := m.rt.Overlays().Open()
	if len(open) == 0 {
		return "none"
	}
	names := make([]string, len(open))
	for i, o := range open {
		names[i] = fmt.Sprintf("%T", o)
		if t, ok := o.(interface{ Tag() string }); ok {
			names[i] = t.Tag()
		}
	}
	return strings.Join(names, " > ")
}
