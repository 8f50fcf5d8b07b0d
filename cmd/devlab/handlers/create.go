package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
)

// CreateOptions carries the create command's flags.
type CreateOptions struct {
	Count          int
	Budget         time.Duration
	NonInteractive bool
}

// Create handles the create command.
//
// It loads the configuration, assembles the pipeline for the configured
// variant and runs the batch. The batch report is printed regardless of
// outcome; the command fails when any device failed.
func Create(ctx context.Context, configPath string, opts CreateOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	timeouts := config.LoadTimeouts()

	orch, err := newOrchestrator(ctx, cfg, timeouts)
	if err != nil {
		return err
	}

	octx := orchestration.NewContext(ctx, cfg)
	octx.Timeouts = timeouts

	report, err := orch.CreateBatch(octx, orchestration.BatchRequest{
		Count:          opts.Count,
		Budget:         opts.Budget,
		NonInteractive: opts.NonInteractive,
	})
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d devices failed", len(report.Failed), report.Total())
	}
	return nil
}

// printReport renders the batch outcome for the operator.
func printReport(w io.Writer, report *orchestration.Report) {
	fmt.Fprintf(w, "\n%d of %d devices ready\n", len(report.Succeeded), report.Total())

	for _, res := range report.Succeeded {
		reused := ""
		if res.Reused {
			reused = " (reused)"
		}
		if res.SlotID > 0 {
			fmt.Fprintf(w, "  %s  slot %d  %s  health :%d  console :%d  vnc :%d%s\n",
				res.Name, res.SlotID, res.Address, res.Ports.Health, res.Ports.Console, res.Ports.VNC, reused)
		} else {
			fmt.Fprintf(w, "  %s  %s%s\n", res.Name, res.Address, reused)
		}
	}

	for _, rec := range report.Failed {
		fmt.Fprintf(w, "  %s failed during %s: %v\n", rec.Name, rec.Stage, rec.Err)
		for _, log := range rec.Logs {
			fmt.Fprintf(w, "    log: %s\n", log)
		}
		for _, note := range rec.Notes {
			fmt.Fprintf(w, "    note: %s\n", note)
		}
	}
}
