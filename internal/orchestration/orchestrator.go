package orchestration

import (
	"errors"

	"github.com/imamik/devlab/internal/slot"
)

// Deps bundles the collaborators an Orchestrator drives.
type Deps struct {
	Backend   ComputeBackend
	Artifacts ArtifactSource
	Launcher  Launcher
	Probe     LivenessProbe

	// Allocator is required for the local variant and nil for remote.
	Allocator *slot.Allocator

	// Conflicts enables the pre-launch conflict check when set.
	Conflicts ConflictChecker

	// Diagnostics enables best-effort log collection for failed devices.
	Diagnostics DiagnosticCollector

	// Confirm asks the user before terminating a conflicting device.
	Confirm ConfirmFunc
}

// Orchestrator drives devices through the creation pipeline and assembles
// the batch report.
type Orchestrator struct {
	backend   ComputeBackend
	artifacts ArtifactSource
	launcher  Launcher
	probe     LivenessProbe
	allocator *slot.Allocator
	conflicts ConflictChecker
	diags     DiagnosticCollector
	confirm   ConfirmFunc
}

// New validates the dependency set and returns an orchestrator.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Backend == nil {
		return nil, errors.New("orchestrator requires a compute backend")
	}
	if deps.Artifacts == nil {
		return nil, errors.New("orchestrator requires an artifact source")
	}
	if deps.Launcher == nil {
		return nil, errors.New("orchestrator requires a launcher")
	}
	if deps.Probe == nil {
		return nil, errors.New("orchestrator requires a liveness probe")
	}

	return &Orchestrator{
		backend:   deps.Backend,
		artifacts: deps.Artifacts,
		launcher:  deps.Launcher,
		probe:     deps.Probe,
		allocator: deps.Allocator,
		conflicts: deps.Conflicts,
		diags:     deps.Diagnostics,
		confirm:   deps.Confirm,
	}, nil
}
