// Package main is the entry point for the devlab CLI.
//
// devlab provisions ephemeral virtual device instances, either on the local
// machine inside a bounded slot pool or on freshly created cloud hosts.
// Creation runs as a staged pipeline with a per-device time budget, and a
// failed device never takes the rest of its batch down with it.
//
// Commands: create, delete, list, version.
//
// For detailed usage information, run:
//
//	devlab --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/devlab/cmd/devlab/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
