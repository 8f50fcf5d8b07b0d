package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/devlab/cmd/devlab/handlers"
)

// Create returns the create command.
//
// Create provisions one or more device instances through the staged
// pipeline. Each device gets its own time budget and its own slot; a failed
// device is reported but never aborts the remaining ones.
func Create() *cobra.Command {
	var (
		configPath     string
		count          int
		budget         time.Duration
		nonInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create one or more device instances",
		Long: `Create provisions device instances through a staged pipeline:
slot allocation, artifact staging, launch, and boot wait.

Each device is given a time budget covering artifact staging and boot wait.
A device that exhausts its budget, or fails any stage, is recorded in the
batch report with its stage and collected logs; the remaining devices still
run to completion.

Example:
  devlab create -c devlab.yaml --count 3 --budget 10m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), configPath, handlers.CreateOptions{
				Count:          count,
				Budget:         budget,
				NonInteractive: nonInteractive,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to device configuration file (required)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of devices to create")
	cmd.Flags().DurationVar(&budget, "budget", 0, "Per-device time budget (default from DEVLAB_CREATE_BUDGET)")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Never prompt; conflicting devices are terminated")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
