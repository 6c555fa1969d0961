// Package runtime assembles the docker/podman argument vector for a
// resolved ContainerSpec and executes it in the foreground, forwarding
// stdin/stdout/stderr and the child's exit status (spec.md §4.7).
package runtime

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/jedi4ever/ctenv/specresolve"
	"github.com/jedi4ever/ctenv/util"
)

var argvLog = util.Log("runtime")

// EntrypointMountPath is the fixed in-container location the generated
// entrypoint script is mounted at.
const EntrypointMountPath = "/usr/local/bin/ctenv-entrypoint.sh"

// ManagedLabel marks every container ctenv starts, per spec.md §4.7.
const ManagedLabel = "se.osd.ctenv.managed=true"

// BuildRunArgs assembles the `run` argument vector for spec, mounting
// the entrypoint script from entrypointHostPath.
func BuildRunArgs(spec *specresolve.Spec, entrypointHostPath string) []string {
	args := []string{"run", "--rm", "--init", "--user=root"}
	args = append(args, "--name="+spec.ContainerName)

	if spec.TTY {
		args = append(args, "-it")
	} else {
		args = append(args, "-i")
	}

	if spec.Runtime == "podman" && isRootless() {
		args = append(args, "--userns=keep-id")
	}

	if spec.Platform != "" {
		args = append(args, "--platform="+spec.Platform)
	}
	if spec.Network != "" {
		args = append(args, "--network="+spec.Network)
	}

	for name, value := range spec.Ulimits {
		args = append(args, "--ulimit", name+"="+value)
	}

	for _, v := range spec.Volumes {
		args = append(args, "--volume", v.String())
	}
	args = append(args, "--volume", spec.GosuHostPath+":"+spec.GosuMountPath+":ro")
	args = append(args, "--volume", entrypointHostPath+":"+EntrypointMountPath+":ro")

	args = append(args, "--workdir", spec.Workdir)

	for _, e := range spec.Env {
		if e.Passthrough {
			args = append(args, "-e", e.Name)
		} else {
			args = append(args, "-e", e.Name+"="+e.Value)
		}
	}

	args = append(args, "--entrypoint=/bin/sh")
	args = append(args, splitRunArgs(spec.RunArgs)...)
	args = append(args, "--label="+ManagedLabel)
	args = append(args, spec.Image, EntrypointMountPath)

	return args
}

// splitRunArgs tokenizes each run_args entry with shell-word rules, so
// a config entry like "--cap-add SYS_PTRACE" becomes two argv words
// instead of one malformed one. An entry that fails to tokenize (an
// unterminated quote) is passed through verbatim.
func splitRunArgs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tokens, err := shlex.Split(r)
		if err != nil {
			argvLog.Warnf("run_arg %q: %v, passing through unsplit", r, err)
			out = append(out, r)
			continue
		}
		out = append(out, tokens...)
	}
	return out
}

// isRootless reports whether the current process is running podman
// unprivileged — the only case where --userns=keep-id is needed to
// keep the invoking user's uid mapped to itself inside the container.
func isRootless() bool {
	return os.Geteuid() != 0
}

// QuoteVector renders args in the shape dry-run mode prints: a
// reproducible, copy-pasteable shell command line.
func QuoteVector(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, program)
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"$`\\;&|()<>*?[]{}~!#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// BuildArgsForDockerfileFile assembles the `build` argument vector for
// a file-based dockerfile and context directory (spec.md §4.6).
func BuildArgsForDockerfileFile(dockerfile, context, tag, platform string, buildArgs map[string]string) []string {
	args := []string{"build", "-f", dockerfile}
	if platform != "" {
		args = append(args, "--platform", platform)
	}
	if tag != "" {
		args = append(args, "-t", tag)
	}
	for k, v := range buildArgs {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, v))
	}
	args = append(args, context)
	return args
}

// BuildArgsForInlineDockerfile assembles the `build` argument vector
// for inline dockerfile content, which is piped to the runtime's
// stdin via `-f -`, with context as the build context directory (the
// caller resolves an empty-sentinel context to a temp directory before
// calling this).
func BuildArgsForInlineDockerfile(context, tag, platform string, buildArgs map[string]string) []string {
	args := []string{"build", "-f", "-"}
	if platform != "" {
		args = append(args, "--platform", platform)
	}
	if tag != "" {
		args = append(args, "-t", tag)
	}
	for k, v := range buildArgs {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, v))
	}
	args = append(args, context)
	return args
}
