package cmd

import "fmt"

// Version is set at build time via -ldflags; "dev" otherwise.
var Version = "dev"

func printVersion() {
	fmt.Println("ctenv " + Version)
}
