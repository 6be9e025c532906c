package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary   = lipgloss.Color("205")
	Secondary = lipgloss.Color("86")
	Subtle    = lipgloss.Color("241")
	Success   = lipgloss.Color("46")
	Warning   = lipgloss.Color("214")
	Error     = lipgloss.Color("196")

	// Header styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(Primary).
			Padding(0, 2).
			Align(lipgloss.Center)

	// Row styles
	TimeStyle = lipgloss.NewStyle().
			Foreground(Subtle)

	LatencyStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)

	// Status styles
	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Dim style
	DimStyle = lipgloss.NewStyle().
			Foreground(Subtle).
			Italic(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Subtle)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(Subtle).
			MarginTop(1)

	// Loading style
	LoadingStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Padding(2, 4)
)

func newTimelineViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()
	return vp
}
