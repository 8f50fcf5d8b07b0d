// Package transport abstracts command execution and file delivery against a
// device host, local or remote. Implementations mark recoverable failures
// (connection resets, dial timeouts) as transient so callers can retry them
// without retrying genuine command failures.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Transport runs commands and pushes files on a device host.
type Transport interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, command string) (string, error)

	// Push copies a local file to the given path on the host, creating
	// parent directories as needed.
	Push(ctx context.Context, localPath, remotePath string) error
}

// TransientError wraps failures that are worth retrying, such as a dropped
// connection mid-transfer.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient transport error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// MarkTransient wraps err as transient. Returns nil for a nil err.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is marked transient anywhere in its chain.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}
