package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/dilutionwise/internal/chart"
)

var (
	colorHolder   = lipgloss.Color(chart.ColorHolder)
	colorOthers   = lipgloss.Color(chart.ColorOthers)
	colorInvestor = lipgloss.Color(chart.ColorInvestor)
	colorText     = lipgloss.Color("#ECEFF4")
	colorMuted    = lipgloss.Color("#6C7280")
	colorError    = lipgloss.Color("#FF5555")
	colorSuccess  = lipgloss.Color("#2AFFAA")
)

type styles struct {
	title        lipgloss.Style
	label        lipgloss.Style
	input        lipgloss.Style
	focusedInput lipgloss.Style
	fieldError   lipgloss.Style
	card         lipgloss.Style
	cardTitle    lipgloss.Style
	cardKey      lipgloss.Style
	cardValue    lipgloss.Style
	muted        lipgloss.Style
	status       lipgloss.Style
	statusError  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(colorInvestor).
			Bold(true).
			MarginBottom(1),

		label: lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true),

		input: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted),

		focusedInput: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorOthers),

		fieldError: lipgloss.NewStyle().
			Foreground(colorError),

		card: lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(2).
			Width(36).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHolder),

		cardTitle: lipgloss.NewStyle().
			Foreground(colorOthers).
			Bold(true),

		cardKey: lipgloss.NewStyle().
			Foreground(colorMuted),

		cardValue: lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true),

		muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		status: lipgloss.NewStyle().
			Foreground(colorSuccess),

		statusError: lipgloss.NewStyle().
			Foreground(colorError),
	}
}
