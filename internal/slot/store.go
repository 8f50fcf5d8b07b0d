package slot

import "time"

// Record is the persisted state of one slot. It survives process restarts.
type Record struct {
	ID         int       `yaml:"id"`
	InUse      bool      `yaml:"in_use"`
	DeviceName string    `yaml:"device_name,omitempty"`
	UpdatedAt  time.Time `yaml:"updated_at,omitempty"`
}

// Lock represents a held advisory lock on one slot.
type Lock interface {
	// SlotID returns the id of the locked slot.
	SlotID() int

	// Release unconditionally releases the lock. Safe to call once per lock;
	// the lock must also be released by the OS if the process dies.
	Release() error
}

// Store persists slot records and mediates their advisory locks.
//
// Implementations must guarantee that TryLock is atomic with respect to other
// processes: at most one holder per slot at any time. Read and Write are only
// defined while the caller holds the slot's lock; a record never seen before
// reads as the zero record with InUse=false (initialize-on-read).
type Store interface {
	// TryLock attempts to take the slot's lock without waiting.
	// Returns ErrAlreadyLocked if another holder exists.
	TryLock(id int) (Lock, error)

	// Read returns the persisted record for the slot.
	Read(id int) (Record, error)

	// Write persists the record for the slot.
	Write(id int, rec Record) error
}
