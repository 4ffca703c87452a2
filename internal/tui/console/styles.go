package console

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#89B4FA")
	colorMuted   = lipgloss.Color("#6C7086")
	colorUser    = lipgloss.Color("#A6E3A1")
	colorOption  = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	userStyle   = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	botStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	optionStyle = lipgloss.NewStyle().Foreground(colorOption)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
)
