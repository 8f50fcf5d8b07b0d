package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devlab/cmd/devlab/handlers"
)

// List returns the list command.
//
// List shows the slot pool: which slots are free, which hold a device, and
// the ports each device answers on.
func List() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the slot pool and running devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to device configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
