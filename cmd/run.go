package cmd

import (
	"fmt"

	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtime"
)

func printRunHelp() {
	fmt.Println("usage: ctenv run [flags] [CONTAINER_NAME] [-- COMMAND...]")
	fmt.Println()
	fmt.Println("Starts a container per the resolved configuration and runs COMMAND")
	fmt.Println("(or the configured default command) inside it as the host user.")
	fmt.Println()
	fmt.Println("flags:")
	fmt.Println("  --runtime docker|podman")
	fmt.Println("  --image IMAGE")
	fmt.Println("  --project-dir PATH")
	fmt.Println("  --project-target PATH[:OPTS]")
	fmt.Println("  --no-auto-project-mount")
	fmt.Println("  --subpath PATH (repeatable)")
	fmt.Println("  --workdir auto|PATH")
	fmt.Println("  --gosu-path auto|PATH")
	fmt.Println("  --name NAME")
	fmt.Println("  --tty auto|yes|no")
	fmt.Println("  --sudo")
	fmt.Println("  --network NAME")
	fmt.Println("  --platform PLATFORM")
	fmt.Println("  --ulimit NAME=VALUE (repeatable)")
	fmt.Println("  --env NAME[=VALUE] (repeatable)")
	fmt.Println("  --volume, -v HOST[:CONTAINER[:OPTS]] (repeatable)")
	fmt.Println("  --post-start-command CMD (repeatable)")
	fmt.Println("  --run-arg ARG (repeatable)")
	fmt.Println("  --build-dockerfile PATH / --build-dockerfile-content TEXT")
	fmt.Println("  --build-context PATH")
	fmt.Println("  --build-tag TAG")
	fmt.Println("  --build-arg KEY=VAL (repeatable)")
	fmt.Println("  --config PATH (repeatable)")
	fmt.Println("  --dry-run")
}

// runCmd implements `ctenv run` (spec.md §6).
func runCmd(args []string) int {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		printRunHelp()
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

	code, err := runtime.Invoke(spec, f.dryRun)
	if err != nil {
		printUsageError(err)
		if code == 0 {
			code = ctenverr.ExitCode(err)
		}
	}
	return code
}
