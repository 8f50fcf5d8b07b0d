package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/platform/transport"
)

type recordingTransport struct {
	commands []string
	runErr   error
}

func (r *recordingTransport) Run(_ context.Context, cmd string) (string, error) {
	r.commands = append(r.commands, cmd)
	return "", r.runErr
}

func (r *recordingTransport) Push(context.Context, string, string) error { return nil }

func factoryOf(tr transport.Transport) func(*orchestration.InstanceHandle) (transport.Transport, error) {
	return func(*orchestration.InstanceHandle) (transport.Transport, error) { return tr, nil }
}

func stagedArtifacts() *orchestration.Artifacts {
	return &orchestration.Artifacts{
		Dir:     "/var/lib/devlab/instances/dev-a",
		Entries: []string{"device.img", "kernel"},
	}
}

func TestLauncher_StartComposesLaunchCommand(t *testing.T) {
	t.Parallel()
	tr := &recordingTransport{}
	launcher, err := NewLauncher(factoryOf(tr), "", config.Hardware{CPUs: 4, MemoryMB: 4096})
	require.NoError(t, err)

	handle := &orchestration.InstanceHandle{Name: "dev-a", Address: "203.0.113.7"}
	result, err := launcher.Start(context.Background(), handle, stagedArtifacts(), []string{"--verbose"})
	require.NoError(t, err)

	require.Len(t, tr.commands, 1)
	cmd := tr.commands[0]
	assert.Contains(t, cmd, DefaultCommand)
	assert.Contains(t, cmd, "--image /var/lib/devlab/instances/dev-a/device.img")
	assert.Contains(t, cmd, "--cpus 4")
	assert.Contains(t, cmd, "--memory-mb 4096")
	assert.Contains(t, cmd, "--verbose")
	assert.Contains(t, cmd, "nohup")

	require.Len(t, result.LogPaths, 1)
	assert.Equal(t, "/var/lib/devlab/instances/dev-a/launcher.log", result.LogPaths[0])
}

func TestLauncher_StartPropagatesRunFailure(t *testing.T) {
	t.Parallel()
	tr := &recordingTransport{runErr: assert.AnError}
	launcher, err := NewLauncher(factoryOf(tr), "", config.Hardware{})
	require.NoError(t, err)

	_, err = launcher.Start(context.Background(), &orchestration.InstanceHandle{Name: "dev-a"}, stagedArtifacts(), nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLauncher_StopKillsByPidfile(t *testing.T) {
	t.Parallel()
	tr := &recordingTransport{}
	launcher, err := NewLauncher(factoryOf(tr), "", config.Hardware{})
	require.NoError(t, err)

	require.NoError(t, launcher.Stop(context.Background(), &orchestration.InstanceHandle{Name: "dev-a"}))

	require.Len(t, tr.commands, 1)
	assert.Contains(t, tr.commands[0], "dev-a/pid")
	assert.Contains(t, tr.commands[0], "kill")
}

func TestNewLauncher_RequiresTransportFactory(t *testing.T) {
	t.Parallel()
	_, err := NewLauncher(nil, "", config.Hardware{})
	assert.Error(t, err)
}
