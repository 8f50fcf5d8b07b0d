// Package poll provides a single sleep-and-recheck primitive shared by
// boot-readiness waits and process-stop waits.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDeadlineExceeded indicates the condition did not hold before the deadline.
var ErrDeadlineExceeded = errors.New("poll: deadline exceeded")

// Condition reports whether the awaited state has been reached. Returning a
// non-nil error aborts the poll immediately.
type Condition func(ctx context.Context) (bool, error)

// Until polls condition every interval until it returns true, the deadline
// elapses, or the context is cancelled. The condition is evaluated once
// immediately before the first sleep.
func Until(ctx context.Context, interval, deadline time.Duration, condition Condition) error {
	if deadline <= 0 {
		return fmt.Errorf("%w: no time remaining", ErrDeadlineExceeded)
	}

	pollCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := condition(pollCtx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				// The caller's context ended, not our deadline.
				return ctx.Err()
			}
			return fmt.Errorf("%w after %v", ErrDeadlineExceeded, deadline)
		case <-ticker.C:
		}
	}
}
