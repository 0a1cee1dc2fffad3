// Package styles provides shared lipgloss styles for vibe's output.
//
// This package centralizes color definitions and cleanup report symbols
// so prompt menus and report lines stay visually consistent.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Primary colors used throughout the UI
var (
	// Primary is the main accent color (cyan/teal)
	Primary color.Color = lipgloss.Color("62")

	// Accent is the highlight color for selected items (pink)
	Accent color.Color = lipgloss.Color("212")

	// Success is used for cleaned worktrees (green)
	Success color.Color = lipgloss.Color("82")

	// Warning is used for skipped worktrees (yellow/orange)
	Warning color.Color = lipgloss.Color("214")

	// Error is used for failures (red)
	Error color.Color = lipgloss.Color("196")

	// Muted is used for secondary text (gray)
	Muted color.Color = lipgloss.Color("240")
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// PrimaryStyle applies the primary color
	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	// AccentStyle applies the accent color with bold
	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// SuccessStyle applies the success color
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	// WarningStyle applies the warning color
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	// ErrorStyle applies the error color
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
)

// Cleanup report symbols
const (
	SymbolCleaned = "●"
	SymbolSkipped = "○"
	SymbolFailed  = "✗"
)

// Cleaned renders the cleaned symbol in green.
func Cleaned() string {
	return SuccessStyle.Render(SymbolCleaned)
}

// Skipped renders the skipped symbol in yellow.
func Skipped() string {
	return WarningStyle.Render(SymbolSkipped)
}

// Failed renders the failed symbol in red.
func Failed() string {
	return ErrorStyle.Render(SymbolFailed)
}
