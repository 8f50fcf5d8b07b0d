package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/slot"
)

// List handles the list command. It renders the slot pool: occupancy, device
// names and port assignments.
func List(_ context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Variant != config.VariantLocal {
		return fmt.Errorf("list is only available for the local variant")
	}

	allocator, err := newAllocator(cfg)
	if err != nil {
		return err
	}
	statuses, err := allocator.Snapshot()
	if err != nil {
		return err
	}

	renderSlots(os.Stdout, statuses)
	return nil
}

func renderSlots(w io.Writer, statuses []slot.Status) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tSTATE\tDEVICE\tHEALTH\tCONSOLE\tVNC")
	for _, st := range statuses {
		state := "free"
		device := "-"
		if st.Record.InUse {
			state = "in-use"
			device = st.Record.DeviceName
		} else if st.Locked {
			state = "locked"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			st.Record.ID, state, device,
			slot.HealthPort(st.Record.ID), slot.ConsolePort(st.Record.ID), slot.VNCPort(st.Record.ID))
	}
	_ = tw.Flush()
}
