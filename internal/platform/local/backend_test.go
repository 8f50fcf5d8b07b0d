package local

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devlab/internal/orchestration"
)

func TestBackend_CreatePreparesInstanceDir(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	backend := NewBackend(stateDir)

	handle, err := backend.CreateOrReuse(context.Background(), orchestration.InstanceSpec{Name: "dev-a", SlotID: 2})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", handle.Address)
	assert.Equal(t, 2, handle.SlotID)
	assert.False(t, handle.Reused)
	assert.DirExists(t, backend.layout.LogDir("dev-a"))
}

func TestBackend_CreateRequiresSlot(t *testing.T) {
	t.Parallel()
	backend := NewBackend(t.TempDir())
	_, err := backend.CreateOrReuse(context.Background(), orchestration.InstanceSpec{Name: "dev-a"})
	assert.Error(t, err)
}

func TestBackend_DeleteRemovesInstanceDir(t *testing.T) {
	t.Parallel()
	backend := NewBackend(t.TempDir())
	_, err := backend.CreateOrReuse(context.Background(), orchestration.InstanceSpec{Name: "dev-a", SlotID: 1})
	require.NoError(t, err)

	require.NoError(t, backend.Delete(context.Background(), "dev-a"))
	_, statErr := os.Stat(backend.layout.InstanceDir("dev-a"))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again is a no-op.
	assert.NoError(t, backend.Delete(context.Background(), "dev-a"))
}
