package ui

import "github.com/charmbracelet/lipgloss"

// Colors matching the terminal's base palette
var (
	Green   = lipgloss.Color("2")
	Red     = lipgloss.Color("1")
	Yellow  = lipgloss.Color("3")
	Cyan    = lipgloss.Color("6")
	DimGray = lipgloss.Color("240")
)

// Text styles
var (
	// SuccessStyle for confirmations
	SuccessStyle = lipgloss.NewStyle().Foreground(Green)

	// ErrorStyle for diagnostics
	ErrorStyle = lipgloss.NewStyle().Foreground(Red).Bold(true)

	// WarnStyle for non-fatal notices
	WarnStyle = lipgloss.NewStyle().Foreground(Yellow)

	// DimStyle for separators and secondary text
	DimStyle = lipgloss.NewStyle().Foreground(DimGray)

	// HeaderStyle for the project line of a history
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
)

// Status row styles
var (
	// CompletedRowStyle highlights done projects in the full listing
	CompletedRowStyle = lipgloss.NewStyle().Foreground(Green)

	// StaleRowStyle highlights projects without recent activity
	StaleRowStyle = lipgloss.NewStyle().Foreground(Red)
)
