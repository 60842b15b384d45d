package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#065F46")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	diseaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F97316")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	activeStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	pendingStepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#94A3B8"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A7F3D0")).
			Padding(0, 1)

	warningCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#FCD34D"))
)
