package tui

import "github.com/charmbracelet/lipgloss"

// Global styles used across views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120"))

	degradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("170")).
				Bold(true)

	dimItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Faint(true)

	// One badge per document status
	badgeUploadedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81"))

	badgeProcessingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	badgeReadyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("120")).
			Bold(true)

	badgeErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("cyan")).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// statusBadge renders the display label for a document status.
func statusBadge(label string, status string) string {
	switch status {
	case "uploaded":
		return badgeUploadedStyle.Render(label)
	case "processing":
		return badgeProcessingStyle.Render(label)
	case "ready":
		return badgeReadyStyle.Render(label)
	case "error":
		return badgeErrorStyle.Render(label)
	}
	return subtitleStyle.Render(label)
}
