// Package testutil holds small helpers shared by tests across packages.
package testutil

import "regexp"

// CSI sequences: ESC [ followed by parameter bytes and a final letter.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes from s, so tests can assert on
// CLI output without the active color theme getting in the way.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
