package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Locked: bold red, they do not move
	colorLocked = color.New(color.FgRed, color.Bold)

	// Flexible: cyan, they absorb edits
	colorFlexible = color.New(color.FgCyan)

	// Fixed: yellow, they slide but keep their length
	colorFixed = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for summaries and confirmations
	colorStats = color.New(color.FgGreen)

	// Problems: red for coverage failures
	colorProblem = color.New(color.FgRed)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// titleWidth is the room left for titles in a day row.
func titleWidth() int {
	// "  1a2b3c4d  HH:MM-HH:MM  L ■  " plus "  1h30m (natural 2h) [1/2]"
	const overhead = 30 + 26
	return max(termWidth()-overhead, 16)
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatProblem(s string) string {
	return colorProblem.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatKind colors s by the lock/flex kind of an item.
func formatKind(kind, s string) string {
	switch kind {
	case "locked":
		return colorLocked.Sprint(s)
	case "flexible":
		return colorFlexible.Sprint(s)
	default:
		return colorFixed.Sprint(s)
	}
}
