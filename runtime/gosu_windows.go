//go:build windows
// +build windows

package runtime

import "os"

// gosuExecutable reports whether path exists; Windows has no exec bit
// to probe, so existence is the best available check.
func gosuExecutable(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
