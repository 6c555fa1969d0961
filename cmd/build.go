package cmd

import (
	"fmt"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtime"
)

func printBuildHelp() {
	fmt.Println("usage: ctenv build [flags] [CONTAINER_NAME]")
	fmt.Println()
	fmt.Println("Builds the image for the resolved configuration's build section")
	fmt.Println("without starting a container. Flags are the same as `ctenv run`,")
	fmt.Println("minus the run-only ones.")
}

// buildCmd implements `ctenv build` (spec.md §4.6/§6).
func buildCmd(args []string) int {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		printBuildHelp()
		return 0
	}

	f, err := parseContainerFlags(args)
	if err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	spec, err := resolveSpec(f)
	if err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	if spec.Build == nil {
		err := &ctenverr.ConfigError{Msg: "no build section resolved for this container; nothing to build"}
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	if _, err := runtime.Build(spec.Runtime, spec.Build, f.dryRun); err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	return 0
}
