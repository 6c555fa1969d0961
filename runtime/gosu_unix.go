//go:build linux || darwin
// +build linux darwin

package runtime

import "golang.org/x/sys/unix"

// gosuExecutable reports whether path exists and is executable by the
// invoking user, checked right before the runtime is invoked so a
// stale or misconfigured gosu_path fails with a clear error instead of
// surfacing as an opaque container-start failure.
func gosuExecutable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}
