package orchestration

import (
	"fmt"
	"sync"
	"time"
)

// DevicePorts are the per-slot loopback ports of a local device. Zero values
// mean the port does not apply (remote variant).
type DevicePorts struct {
	Health  int
	Console int
	VNC     int
}

// DeviceResult describes one successfully created, ready device.
type DeviceResult struct {
	Name    string
	SlotID  int
	Address string
	Ports   DevicePorts
	Reused  bool

	// Logs references log files collected for the device.
	Logs []string

	// StageDurations records how long each pipeline stage took.
	StageDurations map[Stage]time.Duration
}

// FailureRecord describes one failed attempt: the stage it failed in, the
// underlying error, and any best-effort diagnostic notes.
type FailureRecord struct {
	Name   string
	SlotID int
	Stage  Stage
	Err    error

	// Logs references whatever diagnostics were still collectable.
	Logs []string

	// Notes carries secondary diagnostic information, including failures of
	// the diagnostic collection itself. Notes never replace Err.
	Notes []string
}

// Report is the immutable outcome of one batch: every requested device
// appears exactly once, under Succeeded or Failed.
type Report struct {
	Succeeded []DeviceResult
	Failed    []FailureRecord
}

// Total returns the number of devices the batch attempted.
func (r *Report) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Aggregator accumulates per-device outcomes. It is safe for concurrent
// writers, so implementations that parallelize attempts need no extra
// coordination.
type Aggregator struct {
	mu        sync.Mutex
	succeeded []DeviceResult
	failed    []FailureRecord
	finalized bool
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Success records a ready device.
func (a *Aggregator) Success(res DeviceResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		panic(fmt.Sprintf("aggregator: Success(%s) after Finalize", res.Name))
	}
	a.succeeded = append(a.succeeded, res)
}

// Failure records a failed attempt.
func (a *Aggregator) Failure(rec FailureRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		panic(fmt.Sprintf("aggregator: Failure(%s) after Finalize", rec.Name))
	}
	a.failed = append(a.failed, rec)
}

// Finalize seals the aggregator and returns the read-only report. Further
// writes are programming errors and panic.
func (a *Aggregator) Finalize() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finalized = true

	report := &Report{
		Succeeded: make([]DeviceResult, len(a.succeeded)),
		Failed:    make([]FailureRecord, len(a.failed)),
	}
	copy(report.Succeeded, a.succeeded)
	copy(report.Failed, a.failed)
	return report
}
