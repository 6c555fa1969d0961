// Package cmd implements ctenv's command-line surface: manual
// prefix-based argument parsing in the teacher's idiom (no CLI
// framework dependency), dispatching to run/build/config/version.
package cmd

import (
	"fmt"
	"os"

	"github.com/jedi4ever/ctenv/util"
)

var subCommands = map[string]bool{
	"run":     true,
	"build":   true,
	"config":  true,
	"version": true,
	"help":    true,
}

func printRootHelp() {
	fmt.Println("usage: ctenv [--verbose|-v]... [--quiet|-q] <command> [args]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  run      start a container and run a command in it")
	fmt.Println("  build    build the configured image without running it")
	fmt.Println("  config   inspect resolved configuration")
	fmt.Println("  version  print the ctenv version")
	fmt.Println("  help     show this message")
}

// Execute is the CLI entry point called from main. It parses the
// global flags that may precede the subcommand token, then dispatches
// the remaining arguments to that subcommand's own parser.
func Execute(args []string) int {
	verboseCount := 0
	quiet := false

	i := 0
	for ; i < len(args); i++ {
		switch args[i] {
		case "--verbose", "-v":
			verboseCount++
		case "--quiet", "-q":
			quiet = true
		case "--version":
			printVersion()
			return 0
		case "-h", "--help":
			printRootHelp()
			return 0
		default:
			goto dispatch
		}
	}

dispatch:
	util.InitLogger(verboseCount, quiet)

	if i >= len(args) {
		printRootHelp()
		return 2
	}

	sub := args[i]
	rest := args[i+1:]

	if !subCommands[sub] {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", sub)
		printRootHelp()
		return 2
	}

	switch sub {
	case "run":
		return runCmd(rest)
	case "build":
		return buildCmd(rest)
	case "config":
		return configCmd(rest)
	case "version":
		printVersion()
		return 0
	case "help":
		printRootHelp()
		return 0
	default:
		return 2
	}
}
