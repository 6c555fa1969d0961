package runtime

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/jedi4ever/ctenv/ctenverr"
)

// Resolve looks up the runtime binary on PATH.
func Resolve(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &ctenverr.RuntimeNotFoundError{Runtime: name, Err: err}
	}
	return path, nil
}

// Run executes path with args in the foreground, connecting the
// child's stdin/stdout/stderr to the process's own, and returns the
// exit code the caller should propagate (spec.md §4.7, §6's "exit code
// forwarding").
func Run(path string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	return exitCode(err)
}

// RunBuild executes the build subcommand. When dockerfileContent is
// non-empty, it is piped to the child's stdin (the `-f -` inline mode
// of spec.md §4.6); otherwise stdin is left connected to the process's
// own, matching Run.
func RunBuild(path string, args []string, dockerfileContent string) (int, error) {
	cmd := exec.Command(path, args...)
	if dockerfileContent != "" {
		cmd.Stdin = strings.NewReader(dockerfileContent)
	} else {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	code, err := exitCode(err)
	if err == nil && code != 0 {
		return code, &ctenverr.BuildFailure{Runtime: path}
	}
	return code, err
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return signalAwareExitCode(exitErr), nil
	}
	return -1, err
}
