package util

import (
	"os"
	"path/filepath"
	"strings"
)

// CtenvHome returns the base directory for ctenv's own data files
// (bundled gosu binaries). Checks CTENV_HOME first, then ~/.ctenv.
func CtenvHome() string {
	if v := os.Getenv("CTENV_HOME"); v != "" {
		return ExpandTilde(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ctenv")
}

// ExpandTilde expands a leading "~/" in a path to the user's home
// directory. Returns the path unchanged if it doesn't start with "~/"
// or if the home directory cannot be determined.
func ExpandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return filepath.Join(home, path[2:])
}
