package ssh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/devlab/internal/platform/transport"
	"github.com/imamik/devlab/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 30
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout bounds the TCP connection attempt. Zero means
	// defaultDialTimeout.
	DialTimeout time.Duration

	// MaxRetries caps connection retry attempts. Zero means
	// defaultMaxRetries.
	MaxRetries int

	// RetryDelay is the initial delay between retries. Zero means
	// defaultRetryDelay.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification. Nil means
	// ssh.InsecureIgnoreHostKey(), which suits ephemeral instances.
	HostKeyCallback ssh.HostKeyCallback
}

// Client executes commands and delivers files over SSH. The private key is
// parsed once at construction; connections are dialed per call.
type Client struct {
	config *Config
	signer ssh.Signer
}

var _ transport.Transport = (*Client)(nil)

// NewClient validates the configuration and private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy so defaults never leak into the caller's struct.
	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Default for ephemeral instances
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{config: &configCopy, signer: signer}, nil
}

// Run executes a command on the remote host and returns combined output.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", transport.MarkTransient(fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err))
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
			c.config.Host, err, command, string(output))
	}
	return string(output), nil
}

// Push streams a local file to remotePath on the host, creating parent
// directories first.
func (c *Client) Push(ctx context.Context, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return transport.MarkTransient(fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err))
	}
	defer func() { _ = session.Close() }()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	cmd := fmt.Sprintf("mkdir -p %q && cat > %q", path.Dir(remotePath), remotePath)
	if err := session.Start(cmd); err != nil {
		return transport.MarkTransient(fmt.Errorf("failed to start receive command on %s: %w", c.config.Host, err))
	}

	if _, err := io.Copy(stdin, src); err != nil {
		_ = stdin.Close()
		return transport.MarkTransient(fmt.Errorf("failed to stream %s to %s: %w", localPath, c.config.Host, err))
	}
	if err := stdin.Close(); err != nil {
		return transport.MarkTransient(fmt.Errorf("failed to finish transfer to %s: %w", c.config.Host, err))
	}

	if err := session.Wait(); err != nil {
		return fmt.Errorf("receive command failed on %s: %w", c.config.Host, err)
	}
	return nil
}

// connect establishes the SSH connection with retry logic. Dial failures
// come back marked transient so outer layers may retry a whole operation.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User:            c.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(c.signer)},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)
	var client *ssh.Client

	// Freshly booted instances can take a while to accept connections.
	err := retry.WithExponentialBackoff(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, config)
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, transport.MarkTransient(fmt.Errorf("failed to establish SSH connection to %s after %d retry attempts: %w",
			addr, c.config.MaxRetries, err))
	}
	return client, nil
}
