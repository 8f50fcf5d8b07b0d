package orchestration

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/devlab/internal/metrics"
)

// BatchRequest describes one CreateBatch call.
type BatchRequest struct {
	// Count is the number of devices to create.
	Count int

	// Budget bounds the combined Artifact + BootWait window per device.
	// Zero means the configured default.
	Budget time.Duration

	// NonInteractive terminates conflicting devices without asking.
	NonInteractive bool
}

// CreateBatch creates the requested devices sequentially and returns the
// finalized report. Every requested device appears in the report exactly
// once; a failure in one attempt never aborts its siblings. The returned
// error is reserved for invalid requests, not per-device failures.
func (o *Orchestrator) CreateBatch(ctx *Context, req BatchRequest) (*Report, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("device count must be at least 1, got %d", req.Count)
	}

	budget := req.Budget
	if budget == 0 {
		budget = ctx.Timeouts.CreateBudget
	}

	ctx.Observer.Printf("creating %d device(s), budget %v per device", req.Count, budget)

	agg := NewAggregator()
	for i := 0; i < req.Count; i++ {
		o.runAttempt(ctx, agg, i, budget, req.NonInteractive)
	}

	report := agg.Finalize()
	ctx.Observer.Printf("batch done: %d ready, %d failed", len(report.Succeeded), len(report.Failed))
	return report, nil
}

// runAttempt isolates one device's attempt: any error, including a panic from
// a collaborator, is folded into the aggregator instead of escaping the
// batch loop.
func (o *Orchestrator) runAttempt(ctx *Context, agg *Aggregator, index int, budget time.Duration, nonInteractive bool) {
	att := &attempt{
		index:   index,
		name:    deviceName(ctx.Config.NamePrefix),
		tracker: NewBudgetTracker(),
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.CreateFailures.WithLabelValues(string(att.stage)).Inc()
			agg.Failure(FailureRecord{
				Name:   att.name,
				SlotID: att.slotID(),
				Stage:  att.stage,
				Err:    fmt.Errorf("panic during %s: %v", att.stage, r),
			})
		}
	}()

	result, err := o.createDevice(ctx, att, budget, nonInteractive)
	if err != nil {
		metrics.CreateFailures.WithLabelValues(string(att.stage)).Inc()
		rec := FailureRecord{
			Name:   att.name,
			SlotID: att.slotID(),
			Stage:  att.stage,
			Err:    err,
		}
		o.collectDiagnostics(ctx, att, &rec)
		ctx.Observer.Event(Event{Type: EventDeviceFailed, Device: att.name, Stage: att.stage, Err: err,
			Message: "attempt failed"})
		agg.Failure(rec)
		return
	}

	agg.Success(*result)
}

// deviceName derives a unique device identity from the configured prefix.
func deviceName(prefix string) string {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s", prefix, short)
}
