package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/entrypoint"
)

// containerFlags is the CLI-sourced override layer plus the bits that
// aren't ContainerConfig fields: the container name, trailing command,
// and invocation-only switches (--dry-run, --config).
type containerFlags struct {
	override      config.ContainerConfig
	containerName string
	command       []string
	dryRun        bool
	configPaths   []string
}

// parseContainerFlags parses the flag grammar shared by `run` and
// `build` (spec.md §6), stopping at the first bare "--" (everything
// after becomes the trailing command). The first non-flag token is
// taken as the container name and parsing continues past it; a second
// non-flag token is an error.
func parseContainerFlags(args []string) (*containerFlags, error) {
	f := &containerFlags{}
	var ulimits map[string]string
	var buildArgs map[string]string
	var build config.BuildConfig
	var haveBuild bool

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	i := 0
	next := func(flag string) (string, error) {
		i++
		if i >= len(args) {
			return "", &ctenverr.UsageError{Msg: "flag " + flag + " requires a value"}
		}
		return args[i], nil
	}

	for ; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			f.command = args[i+1:]
			return f, nil
		}

		switch {
		case arg == "--runtime":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			if v != "docker" && v != "podman" {
				return nil, &ctenverr.UsageError{Msg: "--runtime must be docker or podman, got " + v}
			}
			f.override.Runtime = config.SetField(v)

		case arg == "--image":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Image = config.SetField(v)

		case arg == "--project-dir":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.ProjectDir = config.SetField(absolutizePath(cwd, v, nil))

		case arg == "--project-target":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.ProjectTarget = config.SetField(absolutizePath(cwd, v, nil))

		case arg == "--no-auto-project-mount":
			f.override.AutoProjectMount = config.SetField(false)

		case arg == "--subpath":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Subpaths = config.SetField(append(f.override.Subpaths.Get(), absolutizeVolumeHostPath(cwd, v)))

		case arg == "--workdir":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			if v != "auto" && !strings.HasPrefix(v, "/") {
				return nil, &ctenverr.PathError{Kind: "workdir", Path: v}
			}
			f.override.Workdir = config.SetField(v)

		case arg == "--gosu-path":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.GosuPath = config.SetField(absolutizePath(cwd, v, keepAutoSentinel))

		case arg == "--name":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.ContainerName = config.SetField(v)

		case arg == "--tty":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			if v != "auto" && v != "yes" && v != "no" {
				return nil, &ctenverr.UsageError{Msg: "--tty must be auto, yes, or no, got " + v}
			}
			f.override.TTY = config.SetField(v)

		case arg == "--sudo":
			f.override.Sudo = config.SetField(true)

		case arg == "--network":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Network = config.SetField(v)

		case arg == "--platform":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Platform = config.SetField(v)

		case arg == "--ulimit":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			name, val, ok := splitKV(v)
			if !ok {
				return nil, &ctenverr.UsageError{Msg: "--ulimit expects NAME=VALUE, got " + v}
			}
			if ulimits == nil {
				ulimits = map[string]string{}
			}
			ulimits[name] = val
			f.override.Ulimits = config.SetField(ulimits)

		case arg == "--env":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Env = config.SetField(append(f.override.Env.Get(), v))

		case arg == "--volume" || arg == "-v":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.Volumes = config.SetField(append(f.override.Volumes.Get(), absolutizeVolumeHostPath(cwd, v)))

		case arg == "--post-start-command":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.PostStartCommands = config.SetField(append(f.override.PostStartCommands.Get(), v))

		case arg == "--run-arg":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.override.RunArgs = config.SetField(append(f.override.RunArgs.Get(), v))

		case arg == "--build-dockerfile":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			build.Dockerfile = config.SetField(absolutizePath(cwd, v, nil))
			haveBuild = true

		case arg == "--build-dockerfile-content":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			build.DockerfileContent = config.SetField(v)
			haveBuild = true

		case arg == "--build-context":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			build.Context = config.SetField(absolutizePath(cwd, v, keepEmptyContextSentinel))
			haveBuild = true

		case arg == "--build-tag":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			build.Tag = config.SetField(v)
			haveBuild = true

		case arg == "--build-arg":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			name, val, ok := splitKV(v)
			if !ok {
				return nil, &ctenverr.UsageError{Msg: "--build-arg expects KEY=VAL, got " + v}
			}
			if buildArgs == nil {
				buildArgs = map[string]string{}
			}
			buildArgs[name] = val
			build.Args = config.SetField(buildArgs)
			haveBuild = true

		case arg == "--dry-run":
			f.dryRun = true

		case arg == "--config":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			f.configPaths = append(f.configPaths, v)

		case strings.HasPrefix(arg, "-"):
			return nil, &ctenverr.UsageError{Msg: "unknown flag " + arg}

		default:
			if f.containerName != "" {
				return nil, &ctenverr.UsageError{Msg: "unexpected argument " + arg}
			}
			f.containerName = arg
		}
	}

	if haveBuild {
		f.override.Build = config.SetField(&build)
	}

	return f, nil
}

func keepAutoSentinel(s string) bool         { return s == "auto" }
func keepEmptyContextSentinel(s string) bool { return s == "-" }

// absolutizePath joins val's path portion onto cwd when it's relative,
// preserving any trailing ":suffix" and leaving sentinel values (per
// skip) untouched. Mirrors config/loader.go's resolvePathField, but
// against the process cwd instead of a config file's directory.
func absolutizePath(cwd, val string, skip func(string) bool) string {
	if val == "" {
		return val
	}
	pathPart, suffix := val, ""
	if idx := strings.Index(val, ":"); idx >= 0 {
		pathPart, suffix = val[:idx], val[idx:]
	}
	if skip != nil && skip(pathPart) {
		return val
	}
	if filepath.IsAbs(pathPart) {
		return val
	}
	return filepath.Join(cwd, pathPart) + suffix
}

// absolutizeVolumeHostPath absolutizes only the HOST component of a
// HOST[:CONTAINER[:OPTS]] volume spec. Mirrors config/loader.go's
// resolveVolumeSpecHostPath.
func absolutizeVolumeHostPath(cwd, raw string) string {
	parts := strings.SplitN(raw, ":", 3)
	if parts[0] == "" || filepath.IsAbs(parts[0]) {
		return raw
	}
	parts[0] = filepath.Join(cwd, parts[0])
	return strings.Join(parts, ":")
}

func splitKV(s string) (string, string, bool) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// commandBody renders the trailing "-- COMMAND ARGS" words into a
// single safely-quoted shell command string, per spec.md §8 Property 6:
// each argument survives as its own word regardless of embedded shell
// metacharacters, because every word is independently quoted before
// joining.
func commandBody(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = entrypoint.Quote(a)
	}
	return strings.Join(quoted, " ")
}

func printUsageError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}
