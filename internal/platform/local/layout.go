package local

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Layout resolves paths inside the state directory.
type Layout struct {
	StateDir string
}

// InstanceDir is where a device's artifacts and logs live.
func (l Layout) InstanceDir(name string) string {
	return filepath.Join(l.StateDir, "instances", name)
}

// LogDir is where a device's launcher output lands.
func (l Layout) LogDir(name string) string {
	return filepath.Join(l.InstanceDir(name), "logs")
}

// PidFile is the slot's process marker. Whoever holds the slot's port span
// has its pid here.
func (l Layout) PidFile(slotID int) string {
	return filepath.Join(l.StateDir, "run", fmt.Sprintf("slot-%d.pid", slotID))
}

// readPid returns the pid in the file, or 0 when the file does not exist.
func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read pidfile %s: %w", path, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("pidfile %s is corrupt: %w", path, err)
	}
	return pid, nil
}

func writePid(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

// processAlive reports whether a pid refers to a live process.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering anything.
	return proc.Signal(noopSignal) == nil
}
