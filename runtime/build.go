package runtime

import (
	"fmt"
	"os"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/specresolve"
)

// Build runs the runtime's build subcommand for spec.Build and returns
// the tag to substitute as the run invocation's image (spec.md §4.6).
// Build always runs before Run when a build section is present. dryRun
// prints the assembled build argument vector and returns without
// executing anything (spec.md §4.6, §4.7's dry-run contract extended
// to build).
func Build(runtimeName string, rb *specresolve.ResolvedBuild, dryRun bool) (string, error) {
	path, err := Resolve(runtimeName)
	if err != nil {
		return "", err
	}

	context := rb.Context
	var cleanup func()
	if rb.ContextMode == specresolve.BuildContextEmpty {
		dir, err := os.MkdirTemp("", "ctenv-build-context-")
		if err != nil {
			return "", err
		}
		context = dir
		cleanup = func() { os.RemoveAll(dir) }
	}
	if cleanup != nil {
		defer cleanup()
	}

	var args []string
	var stdinContent string
	if rb.DockerfileMode == specresolve.BuildDockerfileFile {
		if _, err := os.Stat(rb.Dockerfile); err != nil {
			return "", &ctenverr.PathError{Kind: "dockerfile", Path: rb.Dockerfile, Err: err}
		}
		if _, err := os.Stat(context); err != nil {
			return "", &ctenverr.PathError{Kind: "context", Path: context, Err: err}
		}
		args = BuildArgsForDockerfileFile(rb.Dockerfile, context, rb.Tag, rb.Platform, rb.Args)
	} else {
		if rb.DockerfileContent == "" {
			return "", &ctenverr.ConfigError{Msg: "build.dockerfile_content is empty"}
		}
		if _, err := os.Stat(context); err != nil {
			return "", &ctenverr.PathError{Kind: "context", Path: context, Err: err}
		}
		args = BuildArgsForInlineDockerfile(context, rb.Tag, rb.Platform, rb.Args)
		stdinContent = rb.DockerfileContent
	}

	if dryRun {
		fmt.Println(QuoteVector(path, args))
		return rb.Tag, nil
	}

	if _, err := RunBuild(path, args, stdinContent); err != nil {
		return "", err
	}

	return rb.Tag, nil
}

// MaterializeEntrypoint writes script to a private temp file and
// returns its path and a release function, per Design Notes §9's
// "scoped acquisition with guaranteed release" for the entrypoint
// temp artifact (spec.md §5).
func MaterializeEntrypoint(script string) (path string, release func(), err error) {
	f, err := os.CreateTemp("", "ctenv-entrypoint-*.sh")
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	if _, err := f.WriteString(script); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Chmod(0o755); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}

	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
