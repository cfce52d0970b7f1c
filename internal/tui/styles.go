package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#22C55E")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	// Base styles
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// Verdict indicators
	styleValid = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	styleInvalid = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	// Input box
	styleInputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	// History pane
	styleHistoryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	styleHistoryHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)
)

// VerdictIcon returns a colored pass/fail marker.
func VerdictIcon(valid bool) string {
	if valid {
		return styleValid.Render("✔")
	}
	return styleInvalid.Render("✘")
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}
