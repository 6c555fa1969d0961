package config

import (
	"os"
	"path/filepath"
)

// Discover locates the user-scope and project-scope config files per
// spec.md §4.1/§6: a file named FileName in home, and the nearest
// FileName found walking upward from cwd, stopping at and never
// entering home, never crossing filesystem mount boundaries. Either
// return value is "" if no such file exists.
func Discover(cwd, home string) (userPath, projectPath string) {
	candidate := filepath.Join(home, FileName)
	if fileExists(candidate) {
		userPath = candidate
	}

	home = filepath.Clean(home)
	dir := filepath.Clean(cwd)

	var startDev uint64
	if d, ok := deviceOf(dir); ok {
		startDev = d
	}

	for {
		if dir == home {
			break
		}
		c := filepath.Join(dir, FileName)
		if fileExists(c) {
			projectPath = c
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if d, ok := deviceOf(parent); ok && d != startDev {
			break
		}
		dir = parent
	}

	return userPath, projectPath
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
