// Package orchestration drives device creation batches.
//
// One Orchestrator runs each requested device through the ordered pipeline
// Init -> Artifact -> Launch -> BootWait, isolating failures per device so a
// batch of N requests yields partial success rather than all-or-nothing
// failure. The caller-supplied time budget covers the Artifact + BootWait
// window: whatever the artifact stage actually consumes is subtracted from
// the boot wait, never silently absorbed.
//
// The orchestrator itself never retries a stage; re-running a partially
// booted device is not assumed idempotent. Retries live inside the networked
// sub-operations of the platform implementations.
package orchestration
