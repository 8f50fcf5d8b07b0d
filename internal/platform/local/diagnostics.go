package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/imamik/devlab/internal/orchestration"
)

// DiagnosticCollector gathers whatever the device wrote into its log
// directory so failed creations ship their evidence in the report.
type DiagnosticCollector struct {
	layout Layout
}

var _ orchestration.DiagnosticCollector = (*DiagnosticCollector)(nil)

// NewDiagnosticCollector roots a collector in the state directory.
func NewDiagnosticCollector(stateDir string) *DiagnosticCollector {
	return &DiagnosticCollector{layout: Layout{StateDir: stateDir}}
}

// Collect returns the paths of all log files the device produced.
func (c *DiagnosticCollector) Collect(_ context.Context, h *orchestration.InstanceHandle) ([]string, error) {
	logDir := c.layout.LogDir(h.Name)
	entries, err := os.ReadDir(logDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log dir %s: %w", logDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			paths = append(paths, filepath.Join(logDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
