package runtime

import (
	"fmt"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/entrypoint"
	"github.com/jedi4ever/ctenv/specresolve"
)

// Invoke runs spec end to end: build (if requested), entrypoint
// generation, and run, returning the exit code to propagate. dryRun
// prints the assembled run argument vector and returns 0 without
// executing anything (spec.md §4.7).
func Invoke(spec *specresolve.Spec, dryRun bool) (int, error) {
	if spec.Build != nil {
		tag, err := Build(spec.Runtime, spec.Build, dryRun)
		if err != nil {
			return 1, err
		}
		spec.Image = tag
	}

	if !gosuExecutable(spec.GosuHostPath) {
		return 1, &ctenverr.PathError{Kind: "gosu", Path: spec.GosuHostPath}
	}

	script, err := entrypoint.Generate(spec)
	if err != nil {
		return 1, err
	}

	entrypointPath, release, err := MaterializeEntrypoint(script)
	if err != nil {
		return 1, err
	}
	defer release()

	runtimePath, err := Resolve(spec.Runtime)
	if err != nil {
		return 1, err
	}

	args := BuildRunArgs(spec, entrypointPath)

	if dryRun {
		fmt.Println(QuoteVector(runtimePath, args))
		return 0, nil
	}

	return Run(runtimePath, args)
}
