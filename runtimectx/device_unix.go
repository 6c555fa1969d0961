//go:build linux || darwin
// +build linux darwin

package runtimectx

import "golang.org/x/sys/unix"

// deviceOf returns the device id backing path, used to detect
// filesystem mount boundaries during upward project-dir discovery.
func deviceOf(path string) (uint64, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, false
	}
	return uint64(st.Dev), true
}
