package probe

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/slot"
)

func TestTCP_ReadyWhenListening(t *testing.T) {
	t.Parallel()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = listener.Close() }()

	port := listener.Addr().(*net.TCPAddr).Port
	probe := NewTCP(port)

	ready, err := probe.Ready(context.Background(), &orchestration.InstanceHandle{Address: "127.0.0.1"})
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestTCP_NotReadyWhenRefused(t *testing.T) {
	t.Parallel()
	// Grab a free port and close it so nothing listens there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	probe := NewTCP(port)
	ready, err := probe.Ready(context.Background(), &orchestration.InstanceHandle{Address: "127.0.0.1"})
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestTCP_SlottedInstanceUsesSlotPort(t *testing.T) {
	t.Parallel()
	var dialed string
	probe := &TCP{dial: func(_ context.Context, _, addr string) (net.Conn, error) {
		dialed = addr
		return nil, assert.AnError // refused
	}}

	ready, err := probe.Ready(context.Background(), &orchestration.InstanceHandle{Address: "127.0.0.1", SlotID: 3})
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, net.JoinHostPort("127.0.0.1", strconv.Itoa(slot.HealthPort(3))), dialed)
}
