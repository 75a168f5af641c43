package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/recera/dotrender/pkg/diagram"
)

// Style definitions
var (
	// Colors
	primaryColor = lipgloss.Color("#3b82f6")
	successColor = lipgloss.Color("#10b981")
	warningColor = lipgloss.Color("#f59e0b")
	errorColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(10)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

// Summary is the one-line report printed after a render
func Summary(file string, ev diagram.Event) string {
	switch ev.Kind {
	case diagram.EventApplied:
		return fmt.Sprintf("%s %s fitted to %s (box %gx%g)",
			successStyle.Render("✓"), file, formatSize(ev.Size), ev.Spec.Width, ev.Spec.Height)
	case diagram.EventFailed:
		return fmt.Sprintf("%s %s: %v", errorStyle.Render("✗"), file, ev.Err)
	default:
		return fmt.Sprintf("%s %s: superseded", warningStyle.Render("…"), file)
	}
}

func formatSize(s diagram.Size) string {
	return fmt.Sprintf("%.1fx%.1f", s.Width, s.Height)
}
