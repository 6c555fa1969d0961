package main

import (
	"os"

	"github.com/jedi4ever/ctenv/cmd"
)

// Signals are intentionally left uninstrumented: SIGINT/SIGTERM reach
// the runtime child directly, which is what lets docker/podman tear
// down the container the same way it would for a bare invocation, and
// lets Run's exit-code forwarding report the child's own signal-style
// status instead of a hardcoded one.
func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
