// Package main is the entry point for the pioneer CLI.
//
// Usage:
//
//	pioneer [flags] <command> [subcommand] [args]
//
// Commands:
//
//	demo      - Build the Timeline Dashboard on the host and serve it
//	monitor   - Print every event the host sends
//	send      - Send one command
//	run       - Send a scripted list of commands
//	timeline  - Manage archived recordings (list, show, delete, export)
//	schema    - Print command payload schemas
//	config    - Configuration management (contexts, relay settings)
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/pioneer/cmd/pioneer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
