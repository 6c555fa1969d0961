//go:build linux || darwin
// +build linux darwin

package config

import "golang.org/x/sys/unix"

// deviceOf returns the device id backing path, used by Discover to
// detect filesystem mount boundaries during upward walking.
func deviceOf(path string) (uint64, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, false
	}
	return uint64(st.Dev), true
}
