package tui

import "github.com/charmbracelet/lipgloss"

var (
	focusedBorder = lipgloss.Color("#04B575")
	blurredBorder = lipgloss.Color("#626262")

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(blurredBorder)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	inputTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

func pane(focused bool, width, height int) lipgloss.Style {
	border := blurredBorder
	if focused {
		border = focusedBorder
	}
	return paneStyle.BorderForeground(border).Width(max(1, width)).Height(max(1, height))
}
