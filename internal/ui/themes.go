// Package ui holds the terminal color themes shared by the CLI, the REPL
// and the calibration progress output. Keeping the escape codes in one
// place lets every caller honor -no-color and NO_COLOR the same way.
package ui

import (
	"os"
	"sync"
)

// Theme is a named set of ANSI escape codes. Fields are grouped by role
// rather than raw color so a theme swap keeps output semantics intact.
type Theme struct {
	// Name identifies the theme ("dark", "light", "none").
	Name string
	// Primary highlights headings and the computed result.
	Primary string
	// Secondary styles supporting detail such as timings.
	Secondary string
	// Success marks verified results.
	Success string
	// Warning marks recoverable problems.
	Warning string
	// Error marks failures and mismatches.
	Error string
	// Info styles informational notices.
	Info string
	// Bold is the bold escape code.
	Bold string
	// Underline is the underline escape code.
	Underline string
	// Reset clears all attributes.
	Reset string
}

var (
	// DarkTheme targets dark terminal backgrounds with bright 256-color codes.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // bright blue
		Secondary: "\033[38;5;245m", // grey
		Success:   "\033[38;5;82m",  // bright green
		Warning:   "\033[38;5;220m", // yellow
		Error:     "\033[38;5;196m", // red
		Info:      "\033[38;5;141m", // purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme uses darker shades that stay readable on light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // dark blue
		Secondary: "\033[38;5;240m", // dark grey
		Success:   "\033[38;5;28m",  // dark green
		Warning:   "\033[38;5;130m", // orange
		Error:     "\033[38;5;124m", // dark red
		Info:      "\033[38;5;54m",  // dark purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes at all. Selected by -no-color or
	// the NO_COLOR environment variable.
	NoColorTheme = Theme{
		Name:      "none",
		Primary:   "",
		Secondary: "",
		Success:   "",
		Warning:   "",
		Error:     "",
		Info:      "",
		Bold:      "",
		Underline: "",
		Reset:     "",
	}

	// currentTheme starts as DarkTheme until InitTheme or SetTheme runs.
	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme. Safe for concurrent use.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore the
// previous theme after exercising colored output.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme selects a theme by name ("dark", "light" or "none").
// Unknown names fall back to the dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "dark":
		currentTheme = DarkTheme
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme picks the startup theme. The -no-color flag wins, then the
// NO_COLOR environment variable (https://no-color.org/, any non-empty
// value disables color), and otherwise the dark theme applies.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}

	currentTheme = DarkTheme
}
