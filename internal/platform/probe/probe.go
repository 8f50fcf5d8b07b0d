// Package probe answers "is this device up yet". A device is considered
// ready once its health port accepts TCP connections.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/slot"
)

const dialTimeout = time.Second

// TCP probes the device health port. Slotted instances derive their port
// from the slot's span; remote instances use RemotePort.
type TCP struct {
	// RemotePort is the health port of instances without a slot. Zero
	// means slot.BasePort.
	RemotePort int

	// dial is swapped in tests.
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

var _ orchestration.LivenessProbe = (*TCP)(nil)

// NewTCP builds a probe with the default dialer.
func NewTCP(remotePort int) *TCP {
	return &TCP{RemotePort: remotePort}
}

// Ready reports whether the device's health port accepts connections.
// Connection refusals are "not yet", never errors; a booting device is
// expected to refuse for a while.
func (p *TCP) Ready(ctx context.Context, h *orchestration.InstanceHandle) (bool, error) {
	port := p.RemotePort
	if h.SlotID >= 1 {
		port = slot.HealthPort(h.SlotID)
	}
	if port == 0 {
		port = slot.BasePort
	}

	dial := p.dial
	if dial == nil {
		d := &net.Dialer{Timeout: dialTimeout}
		dial = d.DialContext
	}

	conn, err := dial(ctx, "tcp", net.JoinHostPort(h.Address, strconv.Itoa(port)))
	if err != nil {
		return false, nil
	}
	_ = conn.Close()
	return true, nil
}
