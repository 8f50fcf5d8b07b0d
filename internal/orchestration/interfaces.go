package orchestration

import (
	"context"
)

// InstanceSpec names the compute resource one attempt needs.
type InstanceSpec struct {
	// Name is the device identity, also used as the host name for fresh
	// remote instances.
	Name string

	// SlotID is the local slot backing the device; zero for the remote
	// variant, which has no local slot contention.
	SlotID int
}

// InstanceHandle identifies a backing compute resource once acquired.
type InstanceHandle struct {
	Name    string
	Address string
	SlotID  int

	// Reused distinguishes "already existed, reusing" from "freshly created".
	Reused bool
}

// ComputeBackend acquires and releases the compute resource hosting a device.
// Implementations may be slow (minutes) and must retry their own transient
// API failures internally.
type ComputeBackend interface {
	// CreateOrReuse creates the instance for the spec, or confirms reuse of
	// an existing one with the same identity.
	CreateOrReuse(ctx context.Context, spec InstanceSpec) (*InstanceHandle, error)

	// Delete tears down the instance with the given identity.
	Delete(ctx context.Context, name string) error
}

// Artifacts describes staged device images and binaries on the instance.
type Artifacts struct {
	// Dir is the directory on the instance holding the staged files.
	Dir string

	// Entries lists the staged file names.
	Entries []string
}

// ArtifactSource stages device images/binaries onto an instance, fetching
// them from a build-artifact source first when the image source is remote.
type ArtifactSource interface {
	Stage(ctx context.Context, h *InstanceHandle) (*Artifacts, error)
}

// LaunchResult reports the outcome of the bring-up command.
type LaunchResult struct {
	// LogPaths references launcher and serial logs for the device, collected
	// into the report even when the device later fails to boot.
	LogPaths []string

	// Warnings carries partial-failure detail distinct from total failure.
	Warnings []string
}

// Launcher starts and stops device processes on an instance.
type Launcher interface {
	Start(ctx context.Context, h *InstanceHandle, artifacts *Artifacts, launchArgs []string) (*LaunchResult, error)
	Stop(ctx context.Context, h *InstanceHandle) error
}

// LivenessProbe reports whether a launched device has become ready.
type LivenessProbe interface {
	Ready(ctx context.Context, h *InstanceHandle) (bool, error)
}

// ConflictChecker detects and clears an already-running device bound to the
// same identity before launch.
type ConflictChecker interface {
	// Conflict reports whether a live conflicting device exists.
	Conflict(ctx context.Context, h *InstanceHandle) (bool, error)

	// Terminate asks the conflicting device to stop. Callers poll Conflict
	// afterwards to confirm it fully stopped.
	Terminate(ctx context.Context, h *InstanceHandle) error
}

// DiagnosticCollector gathers best-effort diagnostics (log files) from a
// device. Collection failures are never fatal.
type DiagnosticCollector interface {
	Collect(ctx context.Context, h *InstanceHandle) ([]string, error)
}

// ConfirmFunc asks the user whether to terminate a conflicting device. It is
// only consulted in interactive mode.
type ConfirmFunc func(question string) (bool, error)
