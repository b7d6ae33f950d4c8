package transcript

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	context   lipgloss.Style
	userRole  lipgloss.Style
	assistant lipgloss.Style
	system    lipgloss.Style
	body      lipgloss.Style
	empty     lipgloss.Style
	section   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		context:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		userRole:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		system:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		body:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:     lipgloss.NewStyle().Faint(true),
		section:   lipgloss.NewStyle().MarginTop(1),
	}
}
