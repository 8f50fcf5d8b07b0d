package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/imamik/devlab/internal/platform/transport"
)

// Transport runs commands and copies files on this machine. It exists so the
// artifact stager works identically against local and remote hosts.
type Transport struct{}

var _ transport.Transport = Transport{}

// Run executes the command through the shell and returns combined output.
func (Transport) Run(ctx context.Context, command string) (string, error) {
	output, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("command failed: %w\nCommand: %s\nOutput: %s", err, command, output)
	}
	return string(output), nil
}

// Push copies a local file into place, creating parent directories.
func (Transport) Push(_ context.Context, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(remotePath), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(remotePath), err)
	}

	tmp := remotePath + ".partial"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to copy %s: %w", localPath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return os.Rename(tmp, remotePath)
}
