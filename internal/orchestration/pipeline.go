package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/devlab/internal/config"
	"github.com/imamik/devlab/internal/metrics"
	"github.com/imamik/devlab/internal/slot"
	"github.com/imamik/devlab/internal/util/poll"
)

// attempt is one device's journey through the pipeline.
type attempt struct {
	index   int
	name    string
	stage   Stage
	tracker *BudgetTracker
	claim   *slot.Claim
	handle  *InstanceHandle
	staged  *Artifacts
	launch  *LaunchResult
}

func (a *attempt) slotID() int {
	if a.claim == nil {
		return 0
	}
	return a.claim.SlotID()
}

// createDevice runs one attempt through Init -> Artifact -> Launch ->
// BootWait. The caller owns converting the returned error into a
// FailureRecord; the slot claim, if any, is released here on every path.
func (o *Orchestrator) createDevice(ctx *Context, att *attempt, budget time.Duration, nonInteractive bool) (_ *DeviceResult, err error) {
	metrics.CreateAttempts.WithLabelValues(string(ctx.Config.Variant)).Inc()
	obs := ctx.Observer.WithFields(map[string]string{"device": att.name})
	start := time.Now()

	// Init: claim a slot (local variant) and acquire the compute resource.
	att.stage = StageInit
	obs.Event(Event{Type: EventStageStarted, Device: att.name, Stage: StageInit, Message: "acquiring compute"})

	spec := InstanceSpec{Name: att.name}
	if o.allocator != nil {
		claim, acquireErr := o.allocator.AcquireAny()
		if acquireErr != nil {
			if slot.IsAllBusy(acquireErr) {
				metrics.SlotContention.Inc()
			}
			return nil, acquireErr
		}
		att.claim = claim
		defer func() {
			if releaseErr := claim.Release(); releaseErr != nil && err == nil {
				err = releaseErr
			}
		}()
		spec.SlotID = claim.SlotID()
		obs.Event(Event{Type: EventSlotAcquired, Device: att.name, Message: fmt.Sprintf("claimed slot %d", spec.SlotID)})
	}

	handle, err := o.backend.CreateOrReuse(ctx, spec)
	if err != nil {
		return nil, err
	}
	att.handle = handle
	now := o.finishStage(ctx, att, StageInit, start)

	// Artifact: bounded by the full remaining budget.
	att.stage = StageArtifact
	remaining := att.tracker.Remaining(budget)
	if remaining <= 0 {
		return nil, &BudgetError{Stage: StageArtifact, Budget: budget}
	}
	obs.Event(Event{Type: EventStageStarted, Device: att.name, Stage: StageArtifact,
		Message: fmt.Sprintf("staging %s", ctx.Config.Image)})

	artifactCtx, cancel := context.WithTimeout(ctx, remaining)
	staged, err := o.artifacts.Stage(artifactCtx, handle)
	cancel()
	if err != nil {
		if artifactCtx.Err() != nil && ctx.Err() == nil {
			return nil, &BudgetError{Stage: StageArtifact, Budget: budget}
		}
		return nil, err
	}
	att.staged = staged
	now = o.finishStage(ctx, att, StageArtifact, now)

	// Launch: clear any conflicting device first, then bring ours up.
	att.stage = StageLaunch
	if o.conflicts != nil {
		if err := o.resolveConflict(ctx, att, nonInteractive); err != nil {
			return nil, err
		}
	}
	launch, err := o.launcher.Start(ctx, handle, staged, ctx.Config.LaunchArgs)
	if err != nil {
		return nil, err
	}
	att.launch = launch
	for _, warning := range launch.Warnings {
		obs.Printf("launcher warning: %s", warning)
	}
	now = o.finishStage(ctx, att, StageLaunch, now)

	// BootWait: whatever the artifact stage left of the budget.
	att.stage = StageBootWait
	remaining = att.tracker.Remaining(budget, StageArtifact)
	if remaining <= 0 {
		return nil, &BudgetError{Stage: StageBootWait, Budget: budget, Spent: att.tracker.Elapsed(StageArtifact)}
	}
	obs.Event(Event{Type: EventStageStarted, Device: att.name, Stage: StageBootWait,
		Message: fmt.Sprintf("waiting up to %v for boot", remaining.Round(time.Second))})

	err = poll.Until(ctx, ctx.Timeouts.BootPollInterval, remaining, func(pollCtx context.Context) (bool, error) {
		return o.probe.Ready(pollCtx, handle)
	})
	if errors.Is(err, poll.ErrDeadlineExceeded) {
		return nil, &BudgetError{Stage: StageBootWait, Budget: budget, Spent: att.tracker.Elapsed(StageArtifact)}
	}
	if err != nil {
		return nil, err
	}
	o.finishStage(ctx, att, StageBootWait, now)

	// Persist occupancy so later processes see the slot as taken after this
	// process releases its lock and exits.
	if att.claim != nil {
		if err := att.claim.MarkInUse(att.name); err != nil {
			return nil, err
		}
	}

	metrics.CreateSuccesses.Inc()
	result := &DeviceResult{
		Name:           att.name,
		SlotID:         att.slotID(),
		Address:        handle.Address,
		Reused:         handle.Reused,
		StageDurations: att.tracker.Durations(),
	}
	if att.launch != nil {
		result.Logs = append(result.Logs, att.launch.LogPaths...)
	}
	if ctx.Config.Variant == config.VariantLocal && att.slotID() > 0 {
		result.Ports = DevicePorts{
			Health:  slot.HealthPort(att.slotID()),
			Console: slot.ConsolePort(att.slotID()),
			VNC:     slot.VNCPort(att.slotID()),
		}
	}
	obs.Event(Event{Type: EventDeviceReady, Device: att.name, Message: fmt.Sprintf("ready at %s", handle.Address)})
	return result, nil
}

// finishStage records the stage duration and emits completion telemetry.
func (o *Orchestrator) finishStage(ctx *Context, att *attempt, stage Stage, start time.Time) time.Time {
	now := att.tracker.Record(stage, start)
	elapsed := att.tracker.Elapsed(stage)
	metrics.StageSeconds.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	ctx.Observer.Event(Event{
		Type:     EventStageCompleted,
		Device:   att.name,
		Stage:    stage,
		Duration: elapsed,
		Message:  "completed",
	})
	return now
}

// resolveConflict handles an already-running device bound to the same
// identity. Interactive runs ask before terminating; non-interactive runs
// terminate automatically. The stop wait is bounded by its own fixed timeout,
// independent of the creation budget.
func (o *Orchestrator) resolveConflict(ctx *Context, att *attempt, nonInteractive bool) error {
	conflict, err := o.conflicts.Conflict(ctx, att.handle)
	if err != nil {
		return err
	}
	if !conflict {
		return nil
	}

	identity := att.name
	if att.slotID() > 0 {
		identity = fmt.Sprintf("slot %d", att.slotID())
	}

	if !nonInteractive {
		if o.confirm == nil {
			return &PreemptionError{Identity: identity}
		}
		ok, confirmErr := o.confirm(fmt.Sprintf("A device is already running on %s. Terminate it?", identity))
		if confirmErr != nil {
			return &PreemptionError{Identity: identity, Err: confirmErr}
		}
		if !ok {
			return &PreemptionError{Identity: identity}
		}
	}

	if err := o.conflicts.Terminate(ctx, att.handle); err != nil {
		return &PreemptionError{Identity: identity, Err: err}
	}

	err = poll.Until(ctx, ctx.Timeouts.StopPollInterval, ctx.Timeouts.StopWait, func(pollCtx context.Context) (bool, error) {
		stillRunning, probeErr := o.conflicts.Conflict(pollCtx, att.handle)
		return !stillRunning, probeErr
	})
	if err != nil {
		return &PreemptionError{Identity: identity, Terminated: true,
			Err: fmt.Errorf("did not stop within %v: %w", ctx.Timeouts.StopWait, err)}
	}

	ctx.Observer.Event(Event{Type: EventPreempted, Device: att.name,
		Message: fmt.Sprintf("terminated conflicting device on %s", identity)})
	return nil
}

// collectDiagnostics gathers whatever is still collectable from a failed
// attempt. Failures of the collection itself become notes, never the
// attempt's primary error.
func (o *Orchestrator) collectDiagnostics(ctx *Context, att *attempt, rec *FailureRecord) {
	if att.launch != nil {
		rec.Logs = append(rec.Logs, att.launch.LogPaths...)
	}
	if o.diags == nil || att.handle == nil {
		return
	}

	logs, err := o.diags.Collect(ctx, att.handle)
	if err != nil {
		rec.Notes = append(rec.Notes, fmt.Sprintf("diagnostic collection failed: %v", err))
		return
	}
	rec.Logs = append(rec.Logs, logs...)
	if len(logs) > 0 {
		ctx.Observer.Event(Event{Type: EventDiagnostics, Device: att.name,
			Message: fmt.Sprintf("collected %d log files", len(logs))})
	}
}
