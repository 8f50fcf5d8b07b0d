package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateOpts holds the parameters for creating a device host server.
type CreateOpts struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeys    []string
	Labels     map[string]string
	UserData   string
}

// API is the slice of the Hetzner Cloud API the backend needs.
type API interface {
	// GetServerByName returns the server, or nil when it does not exist.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)

	// CreateServer creates a server and returns it. The returned server may
	// not have a public address assigned yet.
	CreateServer(ctx context.Context, opts CreateOpts) (*hcloud.Server, error)

	// DeleteServer removes the named server. Deleting a server that does not
	// exist is not an error.
	DeleteServer(ctx context.Context, name string) error

	// EnsureSSHKey registers the public key under the given name if no key
	// with that name exists, and returns the key name.
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (string, error)
}
