package hcloud

import (
	"context"
	"fmt"
	"os"
	"time"

	hcloudapi "github.com/hetznercloud/hcloud-go/v2/hcloud"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/orchestration"
	"github.com/imamik/devlab/internal/util/poll"
)

const (
	// ManagedLabel marks every resource this tool creates.
	ManagedLabel = "managed-by"
	managedValue = "devlab"

	// DeviceLabel carries the device name on its server.
	DeviceLabel = "devlab/device"

	sshKeyName          = "devlab"
	addressPollInterval = 2 * time.Second
)

// Backend provisions remote device hosts and implements the compute side of
// the creation pipeline.
type Backend struct {
	api       API
	cfg       config.RemoteConfig
	timeouts  *config.Timeouts
	publicKey string
}

var _ orchestration.ComputeBackend = (*Backend)(nil)

// NewBackend derives the SSH public key from the configured private key and
// wires the API client.
func NewBackend(api API, cfg config.RemoteConfig, timeouts *config.Timeouts) (*Backend, error) {
	if api == nil {
		return nil, fmt.Errorf("api cannot be nil")
	}
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}

	b := &Backend{api: api, cfg: cfg, timeouts: timeouts}
	if cfg.SSHKeyPath != "" {
		keyBytes, err := os.ReadFile(cfg.SSHKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key %s: %w", cfg.SSHKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh key %s: %w", cfg.SSHKeyPath, err)
		}
		b.publicKey = string(ssh.MarshalAuthorizedKey(signer.PublicKey()))
	}
	return b, nil
}

// CreateOrReuse returns a handle for an existing server when reuse is
// enabled, otherwise creates a fresh one. Either way the handle carries a
// reachable public address.
func (b *Backend) CreateOrReuse(ctx context.Context, spec orchestration.InstanceSpec) (*orchestration.InstanceHandle, error) {
	existing, err := b.api.GetServerByName(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if !b.cfg.ReuseInstance {
			return nil, fmt.Errorf("server %s already exists; enable instance reuse or delete it first", spec.Name)
		}
		addr, err := b.waitForAddress(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		return &orchestration.InstanceHandle{Name: spec.Name, Address: addr, SlotID: spec.SlotID, Reused: true}, nil
	}

	opts := CreateOpts{
		Name:       spec.Name,
		ServerType: b.cfg.ServerType,
		Image:      b.cfg.BaseImage,
		Location:   b.cfg.Location,
		Labels: map[string]string{
			ManagedLabel: managedValue,
			DeviceLabel:  spec.Name,
		},
	}

	if b.publicKey != "" {
		keyName, err := b.api.EnsureSSHKey(ctx, sshKeyName, b.publicKey, map[string]string{ManagedLabel: managedValue})
		if err != nil {
			return nil, err
		}
		opts.SSHKeys = []string{keyName}
	}

	if _, err := b.api.CreateServer(ctx, opts); err != nil {
		return nil, err
	}

	addr, err := b.waitForAddress(ctx, spec.Name)
	if err != nil {
		return nil, err
	}
	return &orchestration.InstanceHandle{Name: spec.Name, Address: addr, SlotID: spec.SlotID}, nil
}

// Delete tears the named server down. Missing servers are not an error.
func (b *Backend) Delete(ctx context.Context, name string) error {
	return b.api.DeleteServer(ctx, name)
}

// waitForAddress polls until the server reports a public address.
func (b *Backend) waitForAddress(ctx context.Context, name string) (string, error) {
	var addr string
	err := poll.Until(ctx, addressPollInterval, b.timeouts.InstanceAddress, func(ctx context.Context) (bool, error) {
		server, err := b.api.GetServerByName(ctx, name)
		if err != nil {
			return false, err
		}
		if server == nil {
			return false, fmt.Errorf("server %s disappeared while waiting for its address", name)
		}
		addr = serverAddress(server)
		return addr != "", nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve address of server %s: %w", name, err)
	}
	return addr, nil
}

// serverAddress prefers the public IPv4 address and falls back to IPv6.
func serverAddress(server *hcloudapi.Server) string {
	if ip := server.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	if ip := server.PublicNet.IPv6.IP; ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	return ""
}
