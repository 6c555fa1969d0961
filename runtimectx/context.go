// Package runtimectx captures the single, immutable snapshot of host
// identity and invocation state that feeds the variable substituter
// and the spec resolver (spec.md §3, RuntimeContext).
package runtimectx

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/jedi4ever/ctenv/internal/terminal"
)

// Context is the immutable snapshot described by spec.md §3.
type Context struct {
	UserName  string
	UserID    int
	UserHome  string
	GroupName string
	GroupID   int
	Cwd       string
	ProjectDir string
	PID       int
	TTY       bool
}

// Capture builds a Context for the current process. explicitProjectDir,
// when non-empty, is used verbatim (after making it absolute) instead
// of auto-detection. markerFile is the config file name the project-dir
// auto-detector walks upward looking for (".ctenv.toml").
func Capture(explicitProjectDir, markerFile string) (*Context, error) {
	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("cannot determine current user: %w", err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("cannot parse uid %q: %w", u.Uid, err)
	}

	groupName, gid, err := primaryGroup(u)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	var projectDir string
	if explicitProjectDir != "" {
		projectDir, err = filepath.Abs(explicitProjectDir)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve project dir %q: %w", explicitProjectDir, err)
		}
	} else {
		projectDir = detectProjectDir(cwd, u.HomeDir, markerFile)
	}

	return &Context{
		UserName:   u.Username,
		UserID:     uid,
		UserHome:   u.HomeDir,
		GroupName:  groupName,
		GroupID:    gid,
		Cwd:        cwd,
		ProjectDir: projectDir,
		PID:        os.Getpid(),
		TTY:        terminal.StdinIsTerminal(),
	}, nil
}

// primaryGroup resolves the name and numeric id of u's primary group.
func primaryGroup(u *user.User) (string, int, error) {
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return "", 0, fmt.Errorf("cannot parse gid %q: %w", u.Gid, err)
	}
	g, err := user.LookupGroupId(u.Gid)
	if err != nil {
		// Group lookup can fail in minimal/containerized environments
		// (no nsswitch entry); fall back to the numeric id as the name.
		return u.Gid, gid, nil
	}
	return g.Name, gid, nil
}

// detectProjectDir walks upward from cwd looking for markerFile,
// stopping at and never crossing into home, per spec.md §3/§4.1. It
// never crosses filesystem mount boundaries and falls back to cwd.
func detectProjectDir(cwd, home, markerFile string) string {
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
		if _, err := os.Stat(filepath.Join(dir, markerFile)); err == nil {
			return dir
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
	return cwd
}
