// Command through runs newline-delimited JSON through streaming units.
//
// Usage:
//
//	through [flags] <command> [args]
//
// Commands:
//
//	jq  - Apply a jq filter to every input value
package main

import (
	"fmt"
	"os"

	"github.com/imishinist/go-through/cmd/through/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
