package orchestration

import (
	"time"
)

// BudgetTracker records wall-clock duration of named stages for one creation
// attempt and derives the remaining allowance for later stages from a
// caller-supplied total budget.
//
// Only the final BootWait stage carries a caller-visible SLA, but earlier
// stages must not silently consume it: a 20-minute artifact download shortens
// the boot-wait window instead of producing a device that "failed to boot".
type BudgetTracker struct {
	durations map[Stage]time.Duration
}

// NewBudgetTracker returns an empty tracker.
func NewBudgetTracker() *BudgetTracker {
	return &BudgetTracker{durations: make(map[Stage]time.Duration)}
}

// Record stores now-start under stage and returns now, so consecutive stages
// chain without re-reading the clock.
func (t *BudgetTracker) Record(stage Stage, start time.Time) time.Time {
	now := time.Now()
	t.durations[stage] += now.Sub(start)
	return now
}

// Elapsed returns the recorded duration for a stage.
func (t *BudgetTracker) Elapsed(stage Stage) time.Duration {
	return t.durations[stage]
}

// Durations returns a copy of all recorded stage durations.
func (t *BudgetTracker) Durations() map[Stage]time.Duration {
	out := make(map[Stage]time.Duration, len(t.durations))
	for stage, d := range t.durations {
		out[stage] = d
	}
	return out
}

// Remaining returns total minus the durations recorded for the given stages,
// clamped at zero.
func (t *BudgetTracker) Remaining(total time.Duration, stages ...Stage) time.Duration {
	remaining := total
	for _, stage := range stages {
		remaining -= t.durations[stage]
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}
