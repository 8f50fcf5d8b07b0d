package local

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/slot"
	"github.com/imamik/devlab/internal/util/poll"
)

// DefaultCommand is the device monitor binary expected on PATH.
const DefaultCommand = "devlab-vmm"

// primaryImageName is the artifact the monitor boots from when present.
const primaryImageName = "device.img"

// Launcher starts and stops device monitor processes. Started processes are
// detached from the CLI so devices keep running after it exits; the slot's
// pidfile is the only handle back to them.
type Launcher struct {
	layout   Layout
	command  string
	hardware config.Hardware
	timeouts *config.Timeouts
}

var _ orchestration.Launcher = (*Launcher)(nil)

// NewLauncher builds a launcher rooted in the state directory. An empty
// command selects DefaultCommand.
func NewLauncher(stateDir, command string, hw config.Hardware, timeouts *config.Timeouts) *Launcher {
	if command == "" {
		command = DefaultCommand
	}
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}
	return &Launcher{
		layout:   Layout{StateDir: stateDir},
		command:  command,
		hardware: hw,
		timeouts: timeouts,
	}
}

// Start launches the device monitor against the staged artifacts and records
// its pid under the slot.
func (l *Launcher) Start(_ context.Context, h *orchestration.InstanceHandle, artifacts *orchestration.Artifacts, launchArgs []string) (*orchestration.LaunchResult, error) {
	logDir := l.layout.LogDir(h.Name)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir for %s: %w", h.Name, err)
	}
	logPath := filepath.Join(logDir, "launcher.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", logPath, err)
	}
	defer func() { _ = logFile.Close() }()

	args := []string{
		"--name", h.Name,
		"--image", filepath.Join(artifacts.Dir, primaryImage(artifacts)),
		"--cpus", strconv.Itoa(l.hardware.CPUs),
		"--memory-mb", strconv.Itoa(l.hardware.MemoryMB),
		"--health-port", strconv.Itoa(slot.HealthPort(h.SlotID)),
		"--console-port", strconv.Itoa(slot.ConsolePort(h.SlotID)),
		"--vnc-port", strconv.Itoa(slot.VNCPort(h.SlotID)),
	}
	args = append(args, launchArgs...)

	// Deliberately not CommandContext: the device outlives the CLI run.
	cmd := exec.Command(l.command, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s for %s: %w", l.command, h.Name, err)
	}
	pid := cmd.Process.Pid
	if err := writePid(l.layout.PidFile(h.SlotID), pid); err != nil {
		_ = cmd.Process.Signal(termSignal)
		return nil, fmt.Errorf("failed to record pid of %s: %w", h.Name, err)
	}
	_ = cmd.Process.Release()

	return &orchestration.LaunchResult{LogPaths: []string{logPath}}, nil
}

// Stop terminates the slot's process and waits for it to exit. A slot with
// no live process is already stopped.
func (l *Launcher) Stop(ctx context.Context, h *orchestration.InstanceHandle) error {
	pidFile := l.layout.PidFile(h.SlotID)
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
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	err = poll.Until(ctx, l.timeouts.StopPollInterval, l.timeouts.StopWait, func(context.Context) (bool, error) {
		return !processAlive(pid), nil
	})
	if err != nil {
		// Escalate; a wedged monitor must not hold the slot's ports.
		_ = proc.Kill()
	}
	return os.RemoveAll(pidFile)
}

func primaryImage(artifacts *orchestration.Artifacts) string {
	for _, entry := range artifacts.Entries {
		if entry == primaryImageName {
			return entry
		}
	}
	if len(artifacts.Entries) > 0 {
		return artifacts.Entries[0]
	}
	return primaryImageName
}
