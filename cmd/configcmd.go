package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedi4ever/ctenv/config"
	"github.com/jedi4ever/ctenv/ctenverr"
	"github.com/jedi4ever/ctenv/runtimectx"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

func printConfigHelp() {
	fmt.Println("usage: ctenv config show [CONTAINER_NAME] [--format toml|yaml|json]")
	fmt.Println("       ctenv config path")
}

// configCmd implements the supplemented `ctenv config` subcommand tree.
func configCmd(args []string) int {
	if len(args) == 0 {
		printConfigHelp()
		return 2
	}

	switch args[0] {
	case "show":
		return configShowCmd(args[1:])
	case "path":
		return configPathCmd()
	case "-h", "--help":
		printConfigHelp()
		return 0
	default:
		printUsageError(&ctenverr.UsageError{Msg: "unknown config subcommand " + args[0]})
		return 2
	}
}

func configShowCmd(args []string) int {
	format := "toml"
	var containerName string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format":
			i++
			if i >= len(args) {
				printUsageError(&ctenverr.UsageError{Msg: "--format requires a value"})
				return 2
			}
			format = args[i]
		default:
			if containerName != "" {
				printUsageError(&ctenverr.UsageError{Msg: "unexpected argument " + args[i]})
				return 2
			}
			containerName = args[i]
		}
	}

	rc, err := runtimectx.Capture("", config.FileName)
	if err != nil {
		printUsageError(err)
		return 1
	}

	loaded, err := config.Load(rc.Cwd, rc.UserHome, nil)
	if err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	merged := loaded.MergedDefaults()
	_, selected, found, err := loaded.SelectedContainer(containerName)
	if err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}
	if found {
		merged = config.Merge(merged, selected)
	} else if containerName != "" {
		err := &ctenverr.UnknownContainerError{Name: containerName}
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	view := config.Show(merged)

	var out []byte
	switch format {
	case "toml":
		out, err = toml.Marshal(view)
	case "yaml":
		out, err = yaml.Marshal(view)
	case "json":
		out, err = json.MarshalIndent(view, "", "  ")
	default:
		err = &ctenverr.UsageError{Msg: "--format must be toml, yaml, or json, got " + format}
	}
	if err != nil {
		printUsageError(err)
		return ctenverr.ExitCode(err)
	}

	os.Stdout.Write(out)
	if format == "json" {
		fmt.Println()
	}
	return 0
}

func configPathCmd() int {
	rc, err := runtimectx.Capture("", config.FileName)
	if err != nil {
		printUsageError(err)
		return 1
	}

	userPath, projectPath := config.Discover(rc.Cwd, rc.UserHome)
	printPathStatus("user", userPath)
	printPathStatus("project", projectPath)
	return 0
}

func printPathStatus(scope, path string) {
	if path == "" {
		fmt.Printf("%s: (none found)\n", scope)
		return
	}
	_, err := os.Stat(path)
	fmt.Printf("%s: %s (exists=%v)\n", scope, path, err == nil)
}
