package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("69")
	mutedColor  = lipgloss.Color("241")
	errorColor  = lipgloss.Color("196")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Foreground(lipgloss.Color("230")).
			Background(accentColor)

	buttonBusyStyle = buttonStyle.Background(mutedColor)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.BorderForeground(accentColor)

	cardEditingStyle = cardStyle.BorderForeground(lipgloss.Color("214"))

	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)

	alertTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
)
