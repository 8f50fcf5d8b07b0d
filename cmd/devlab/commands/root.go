// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the devlab CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devlab",
		Short: "Provision ephemeral virtual device instances",
	}

	cmd.AddCommand(Create())
	cmd.AddCommand(Delete())
	cmd.AddCommand(List())
	cmd.AddCommand(Version())

	return cmd
}
