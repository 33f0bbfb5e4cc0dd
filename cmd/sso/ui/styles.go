// Package ui provides the visual styling and interactive components for the
// sso CLI.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Success = lipgloss.Color("#8BC34A")
	Warning = lipgloss.Color("#FFC107")
	Danger  = lipgloss.Color("#e53935")
	Info    = lipgloss.Color("#2196F3")
	Muted   = lipgloss.Color("#6b7280")
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
	BoldStyle  = lipgloss.NewStyle().Bold(true)

	successPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(0, 1)

	infoPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Info).
			Padding(0, 1)

	warnPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Warning).
			Padding(0, 1)

	errorPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Danger).
			Padding(0, 1)
)

// SuccessPanel renders content in a green rounded border.
func SuccessPanel(content string) string { return successPanel.Render(content) }

// InfoPanel renders content in a blue rounded border.
func InfoPanel(content string) string { return infoPanel.Render(content) }

// WarnPanel renders content in a yellow rounded border.
func WarnPanel(content string) string { return warnPanel.Render(content) }

// ErrorPanel renders content in a red rounded border.
func ErrorPanel(content string) string { return errorPanel.Render(content) }
