package orchestration

import (
	"errors"
	"fmt"
	"time"
)

// BudgetError is the deliberate synthetic failure raised when the remaining
// time budget for a stage is non-positive, or when the stage's wait consumed
// the last of it. Distinguished from a genuine remote timeout so the report
// can tell the user "ran out of time" vs "the device itself reported an error".
type BudgetError struct {
	Stage  Stage
	Budget time.Duration
	Spent  time.Duration
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("time budget exhausted before %s completed (budget %v, %v already spent on earlier stages)",
		e.Stage, e.Budget, e.Spent.Round(time.Millisecond))
}

// IsBudgetExhausted reports whether err carries a budget-exhaustion failure.
func IsBudgetExhausted(err error) bool {
	var budgetErr *BudgetError
	return errors.As(err, &budgetErr)
}

// PreemptionError indicates a conflicting already-running device could not be
// cleared (or the user declined to clear it) before launch.
type PreemptionError struct {
	Identity   string
	Terminated bool
	Err        error
}

func (e *PreemptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflicting device %s: %v", e.Identity, e.Err)
	}
	return fmt.Sprintf("conflicting device %s was not cleaned up", e.Identity)
}

func (e *PreemptionError) Unwrap() error {
	return e.Err
}

// IsPreemptionConflict reports whether err is a pre-emption conflict.
func IsPreemptionConflict(err error) bool {
	var preemptErr *PreemptionError
	return errors.As(err, &preemptErr)
}
