package local

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/devlab/internal/orchestration"
)

// Backend implements the compute side of the pipeline for devices running on
// this machine. "Creating" an instance means preparing its directory; the
// process itself is the launcher's business.
type Backend struct {
	layout Layout
}

var _ orchestration.ComputeBackend = (*Backend)(nil)

// NewBackend roots a backend in the given state directory.
func NewBackend(stateDir string) *Backend {
	return &Backend{layout: Layout{StateDir: stateDir}}
}

// CreateOrReuse prepares the instance directory. Local instances are never
// reused; every attempt gets a fresh directory.
func (b *Backend) CreateOrReuse(_ context.Context, spec orchestration.InstanceSpec) (*orchestration.InstanceHandle, error) {
	if spec.SlotID < 1 {
		return nil, fmt.Errorf("local instances require a slot, got %d", spec.SlotID)
	}
	if err := os.MkdirAll(b.layout.LogDir(spec.Name), 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare instance dir for %s: %w", spec.Name, err)
	}
	return &orchestration.InstanceHandle{
		Name:    spec.Name,
		Address: "127.0.0.1",
		SlotID:  spec.SlotID,
	}, nil
}

// Delete removes the instance directory and everything staged into it.
func (b *Backend) Delete(_ context.Context, name string) error {
	dir := b.layout.InstanceDir(name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove instance dir %s: %w", dir, err)
	}
	return nil
}
