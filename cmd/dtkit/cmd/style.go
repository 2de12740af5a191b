package cmd

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the commands.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7c3aed"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	EventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#94a3b8")).
			Padding(0, 1)
	ActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
)
