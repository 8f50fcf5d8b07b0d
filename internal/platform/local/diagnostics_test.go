package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devlab/internal/orchestration"
)

func TestDiagnosticCollector_ReturnsLogPaths(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	collector := NewDiagnosticCollector(stateDir)

	logDir := collector.layout.LogDir("dev-a")
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "serial.log"), []byte("boot"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "launcher.log"), []byte("spawn"), 0o644))

	paths, err := collector.Collect(context.Background(), &orchestration.InstanceHandle{Name: "dev-a"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(logDir, "launcher.log"),
		filepath.Join(logDir, "serial.log"),
	}, paths)
}

func TestDiagnosticCollector_NoLogsYet(t *testing.T) {
	t.Parallel()
	collector := NewDiagnosticCollector(t.TempDir())

	paths, err := collector.Collect(context.Background(), &orchestration.InstanceHandle{Name: "dev-b"})
	require.NoError(t, err)
	assert.Empty(t, paths)
}
