package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/devlab/cmd/devlab/handlers"
)

// Delete returns the delete command.
//
// Delete tears down a single device, addressed either by its slot number or
// by its name. The slot returns to the pool even when parts of the teardown
// fail.
func Delete() *cobra.Command {
	var (
		configPath string
		slotID     int
		name       string
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Tear down a device instance",
		Long: `Delete stops a device and releases its slot.

Address the device either by slot or by name:
  devlab delete -c devlab.yaml --slot 2
  devlab delete -c devlab.yaml --name devlab-3f2a19`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Delete(cmd.Context(), configPath, slotID, name)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to device configuration file (required)")
	cmd.Flags().IntVar(&slotID, "slot", 0, "Slot number of the device to delete")
	cmd.Flags().StringVar(&name, "name", "", "Name of the device to delete")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
