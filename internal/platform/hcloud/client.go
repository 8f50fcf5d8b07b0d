package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/util/retry"
)

// Client implements API against the real Hetzner Cloud service.
type Client struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client, useful for testing.
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a Client authenticated with the given API token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(token)),
		timeouts: config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*Client)(nil)

func (c *Client) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", name, err)
	}
	return server, nil
}

func (c *Client) CreateServer(ctx context.Context, opts CreateOpts) (*hcloud.Server, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return nil, fmt.Errorf("failed to get server type %s: %w", opts.ServerType, err)
	}
	if serverType == nil {
		return nil, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, opts.Image, serverType.Architecture)
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", opts.Image, err)
	}
	if image == nil {
		return nil, fmt.Errorf("image not found: %s", opts.Image)
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      image,
		Labels:     opts.Labels,
		UserData:   opts.UserData,
	}

	if opts.Location != "" {
		location, _, err := c.client.Location.Get(ctx, opts.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to get location %s: %w", opts.Location, err)
		}
		createOpts.Location = location
	}

	for _, key := range opts.SSHKeys {
		keyObj, _, err := c.client.SSHKey.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get ssh key %s: %w", key, err)
		}
		if keyObj == nil {
			return nil, fmt.Errorf("ssh key not found: %s", key)
		}
		createOpts.SSHKeys = append(createOpts.SSHKeys, keyObj)
	}

	result, _, err := c.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", opts.Name, err)
	}
	return result.Server, nil
}

// DeleteServer is idempotent and retries while the server is locked by a
// running action or the API is rate limiting.
func (c *Client) DeleteServer(ctx context.Context, name string) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		server, _, err := c.client.Server.GetByName(ctx, name)
		if err != nil {
			if IsRateLimited(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to get server %s: %w", name, err))
		}
		if server == nil {
			return nil
		}

		_, _, err = c.client.Server.DeleteWithResult(ctx, server)
		return deleteRetryErr(err)
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
}

// deleteRetryErr classifies a delete failure for the retry loop. A server
// that vanished between lookup and delete counts as deleted; locked and
// rate-limited responses are retried; everything else stops the loop.
func deleteRetryErr(err error) error {
	switch {
	case err == nil, IsNotFound(err):
		return nil
	case isResourceLocked(err), IsRateLimited(err):
		return err
	default:
		return retry.Fatal(err)
	}
}

func (c *Client) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (string, error) {
	existing, _, err := c.client.SSHKey.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to get ssh key %s: %w", name, err)
	}
	if existing != nil {
		return existing.Name, nil
	}

	created, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    labels,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create ssh key %s: %w", name, err)
	}
	return created.Name, nil
}
