package slot

import (
	"errors"
	"fmt"
)

// ErrAlreadyLocked indicates another process currently holds the slot's lock.
var ErrAlreadyLocked = errors.New("slot is locked by another process")

// AllBusyError indicates a full scan of the pool found no acquirable slot.
type AllBusyError struct {
	PoolSize int
}

func (e *AllBusyError) Error() string {
	return fmt.Sprintf("all %d local device slots are locked or in use", e.PoolSize)
}

// IsAllBusy reports whether err indicates pool exhaustion.
func IsAllBusy(err error) bool {
	var busyErr *AllBusyError
	return errors.As(err, &busyErr)
}
