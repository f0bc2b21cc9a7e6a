// Package main is the entry point for the voiceline CLI.
//
// Usage:
//
//	voiceline [flags] <command>
//
// Commands:
//
//	serve      - Run the HTTP API server
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/voiceline/voiceline/cmd/voiceline/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
