package local

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/util/poll"
)

// ConflictChecker detects a live process already bound to a slot's port span
// and can evict it. The check runs before launch, so any live pid under the
// slot belongs to somebody else.
type ConflictChecker struct {
	layout   Layout
	timeouts *config.Timeouts
}

var _ orchestration.ConflictChecker = (*ConflictChecker)(nil)

// NewConflictChecker roots a checker in the state directory.
func NewConflictChecker(stateDir string, timeouts *config.Timeouts) *ConflictChecker {
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &ConflictChecker{layout: Layout{StateDir: stateDir}, timeouts: timeouts}
}

// Conflict reports whether a live process occupies the slot.
func (c *ConflictChecker) Conflict(_ context.Context, h *orchestration.InstanceHandle) (bool, error) {
	pid, err := readPid(c.layout.PidFile(h.SlotID))
	if err != nil {
		return false, err
	}
	if pid == 0 {
		return false, nil
	}
	if !processAlive(pid) {
		// Stale pidfile from an unclean shutdown.
		return false, os.RemoveAll(c.layout.PidFile(h.SlotID))
	}
	return true, nil
}

// Terminate evicts the occupant and waits for it to release the port span.
func (c *ConflictChecker) Terminate(ctx context.Context, h *orchestration.InstanceHandle) error {
	pidFile := c.layout.PidFile(h.SlotID)
	pid, err := readPid(pidFile)
	if err != nil {
		return err
	}
	if !processAlive(pid) {
		return os.RemoveAll(pidFile)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := proc.Signal(termSignal); err != nil {
		return fmt.Errorf("failed to signal occupant pid %d: %w", pid, err)
	}

	err = poll.Until(ctx, c.timeouts.StopPollInterval, c.timeouts.StopWait, func(context.Context) (bool, error) {
		return !processAlive(pid), nil
	})
	if err != nil {
		return fmt.Errorf("occupant pid %d of slot %d did not exit: %w", pid, h.SlotID, err)
	}
	return os.RemoveAll(pidFile)
}
