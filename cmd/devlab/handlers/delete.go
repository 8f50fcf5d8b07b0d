package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
)

// Delete handles the delete command. The device is addressed by exactly one
// of slot or name.
func Delete(ctx context.Context, configPath string, slotID int, name string) error {
	if (slotID == 0) == (name == "") {
		return fmt.Errorf("specify exactly one of --slot or --name")
	}

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

	if slotID != 0 {
		return orch.DeleteBySlot(octx, slotID)
	}
	return orch.DeleteByIdentity(octx, name)
}
