// Package entrypoint renders the POSIX shell script that runs as root
// inside the container, performs identity setup, and execs the
// privilege-drop helper (spec.md §4.5).
package entrypoint

import "strings"

// Quote renders s as a single POSIX shell word using strict single-quote
// escaping: wrap in '...', and rewrite every internal ' as '\''. This is
// the one place in the package that touches raw string concatenation
// into shell syntax — every other function in this package builds
// script lines by calling Quote, never by interpolating a value
// unquoted.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
