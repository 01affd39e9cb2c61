package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(4).
			Align(lipgloss.Right)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Hint renders secondary text.
func Hint(s string) string { return hintStyle.Render(s) }

// Warning renders a non-fatal notice.
func Warning(s string) string { return warningStyle.Render(s) }

// Danger renders an error notice.
func Danger(s string) string { return dangerStyle.Render(s) }
