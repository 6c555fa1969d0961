//go:build windows

package runtime

import "os/exec"

func signalAwareExitCode(exitErr *exec.ExitError) int {
	return exitErr.ExitCode()
}
