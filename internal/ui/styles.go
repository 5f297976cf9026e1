package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A78BFA"}
	subtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#6B6B6B"}
	danger = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF6B6B"}
	ok     = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#6BCB77"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Bold(true)
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle         = lipgloss.NewStyle().Foreground(subtle).Italic(true)
	errorStyle        = lipgloss.NewStyle().Foreground(danger).Bold(true)
	statusStyle       = lipgloss.NewStyle().Foreground(ok)
	doneTaskStyle     = lipgloss.NewStyle().Foreground(subtle).Strikethrough(true)
	cursorStyle       = lipgloss.NewStyle().Foreground(accent).Bold(true)

	frameStyle = lipgloss.NewStyle().Padding(1, 2)
)
