// Package ui provides terminal UI utilities for rich output formatting.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Colors returns true if colored output should be enabled.
// Respects NO_COLOR env var and --no-color flag.
func Colors(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return true
}

// Label renders the left-hand side of a result line, e.g. "Task:".
func Label(s string, noColor bool) string {
	if noColor {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// Link renders a URL.
func Link(s string, noColor bool) string {
	if noColor {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true).Render(s)
}

// Warn renders a warning message.
func Warn(s string, noColor bool) string {
	if noColor {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(s)
}
