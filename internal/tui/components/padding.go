package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// spaces backs Pad for the widths a card or strip usually needs.
var spaces = strings.Repeat(" ", 256)

// Pad returns a string of n spaces.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n <= len(spaces) {
		return spaces[:n]
	}
	return strings.Repeat(" ", n)
}

// PadRight pads s with spaces to width display cells. Wider strings are
// returned unchanged.
func PadRight(s string, width int) string {
	return s + Pad(width-lipgloss.Width(s))
}
