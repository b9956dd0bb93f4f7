package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Minimal color palette
var (
	DimColor    = lipgloss.Color("#6c6c6c")
	TextColor   = lipgloss.Color("#e0e0e0")
	AccentColor = lipgloss.Color("#7aa2f7")
	ErrorColor  = lipgloss.Color("#f7768e")
	ToolColor   = lipgloss.Color("#9ece6a")
)

var (
	ToolStyle = lipgloss.NewStyle().
			Foreground(ToolColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(DimColor)

	StatusActiveStyle = lipgloss.NewStyle().
				Foreground(AccentColor)

	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(DimColor)
)

// Line prefixes
const (
	ToolPrefix   = "  tool "
	ErrorPrefix  = "  error "
	StatusCircle = "●"
)

// ToolLine renders "tool <name>" with an optional dimmed detail.
func ToolLine(name, detail string) string {
	line := ToolStyle.Render(ToolPrefix + name)
	if detail != "" {
		line += " " + HelpStyle.Render(detail)
	}
	return line
}

// ErrorLine renders an error message.
func ErrorLine(msg string) string {
	return ErrorStyle.Render(ErrorPrefix + msg)
}
