// Package remote drives device monitor processes on a provisioned cloud
// host over the transport. The host is single-tenant, so process bookkeeping
// is a pidfile next to the staged artifacts.
package remote

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/platform/artifact"
	"github.com/imamik/devlab/internal/platform/transport"
	"github.com/imamik/devlab/internal/slot"
)

// DefaultCommand is the device monitor binary expected on the host's PATH.
const DefaultCommand = "devlab-vmm"

// Launcher starts and stops the device monitor on the remote host.
type Launcher struct {
	transports func(h *orchestration.InstanceHandle) (transport.Transport, error)
	command    string
	hardware   config.Hardware
}

var _ orchestration.Launcher = (*Launcher)(nil)

// NewLauncher builds a launcher. An empty command selects DefaultCommand.
func NewLauncher(transports func(h *orchestration.InstanceHandle) (transport.Transport, error), command string, hw config.Hardware) (*Launcher, error) {
	if transports == nil {
		return nil, fmt.Errorf("transport factory cannot be nil")
	}
	if command == "" {
		command = DefaultCommand
	}
	return &Launcher{transports: transports, command: command, hardware: hw}, nil
}

// Start launches the monitor detached on the host and records its pid next
// to the artifacts.
func (l *Launcher) Start(ctx context.Context, h *orchestration.InstanceHandle, artifacts *orchestration.Artifacts, launchArgs []string) (*orchestration.LaunchResult, error) {
	tr, err := l.transports(h)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport to %s: %w", h.Name, err)
	}

	logPath := path.Join(artifacts.Dir, "launcher.log")
	args := []string{
		l.command,
		"--name", h.Name,
		"--image", path.Join(artifacts.Dir, primaryImage(artifacts)),
		"--cpus", strconv.Itoa(l.hardware.CPUs),
		"--memory-mb", strconv.Itoa(l.hardware.MemoryMB),
		"--health-port", strconv.Itoa(slot.BasePort),
	}
	args = append(args, launchArgs...)

	cmd := fmt.Sprintf("nohup %s > %q 2>&1 & echo $! > %q",
		strings.Join(args, " "), logPath, l.pidFile(artifacts))
	if _, err := tr.Run(ctx, cmd); err != nil {
		return nil, fmt.Errorf("failed to start %s on %s: %w", l.command, h.Name, err)
	}

	return &orchestration.LaunchResult{LogPaths: []string{logPath}}, nil
}

// Stop terminates the monitor via its recorded pid. A host without a pidfile
// is already stopped.
func (l *Launcher) Stop(ctx context.Context, h *orchestration.InstanceHandle) error {
	tr, err := l.transports(h)
	if err != nil {
		return fmt.Errorf("failed to open transport to %s: %w", h.Name, err)
	}

	pidFile := path.Join(artifact.DefaultDestRoot, h.Name, "pid")
	cmd := fmt.Sprintf("if [ -f %q ]; then kill \"$(cat %q)\" 2>/dev/null; rm -f %q; fi", pidFile, pidFile, pidFile)
	if _, err := tr.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to stop device %s: %w", h.Name, err)
	}
	return nil
}

func (l *Launcher) pidFile(artifacts *orchestration.Artifacts) string {
	return path.Join(artifacts.Dir, "pid")
}

func primaryImage(artifacts *orchestration.Artifacts) string {
	for _, entry := range artifacts.Entries {
		if entry == "device.img" {
			return entry
		}
	}
	if len(artifacts.Entries) > 0 {
		return artifacts.Entries[0]
	}
	return "device.img"
}
