package slot

import (
	"errors"
	"fmt"
)

// Allocator hands out slots from a fixed pool of ids 1..PoolSize.
//
// It never retries contention internally: AlreadyLocked and AllBusyError are
// surfaced to the caller, whose outer policy decides whether to try again.
type Allocator struct {
	store    Store
	poolSize int
}

// NewAllocator creates an allocator over the given store. poolSize is fixed
// for the allocator's lifetime and is derived from host resource limits by
// the caller (see DefaultPoolSize).
func NewAllocator(store Store, poolSize int) (*Allocator, error) {
	if store == nil {
		return nil, errors.New("slot store cannot be nil")
	}
	if poolSize < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", poolSize)
	}
	return &Allocator{store: store, poolSize: poolSize}, nil
}

// PoolSize returns the fixed number of slots managed by this allocator.
func (a *Allocator) PoolSize() int {
	return a.poolSize
}

// AcquireSpecific takes the lock for exactly the given slot. It fails
// immediately with ErrAlreadyLocked if another process holds it; a caller
// asking for a specific slot wants a clear yes/no, not a wait.
//
// The returned claim carries the persisted record as-is: callers tearing a
// device down acquire in-use slots on purpose, so InUse is not checked here.
func (a *Allocator) AcquireSpecific(id int) (*Claim, error) {
	if id < 1 || id > a.poolSize {
		return nil, fmt.Errorf("slot id %d outside pool [1, %d]", id, a.poolSize)
	}

	lock, err := a.store.TryLock(id)
	if err != nil {
		return nil, err
	}

	rec, err := a.store.Read(id)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}

	return &Claim{record: rec, lock: lock, store: a.store}, nil
}

// AcquireAny scans ids 1..PoolSize in increasing order and returns the first
// slot whose lock-if-not-in-use attempt succeeds. The in-use check happens
// under the slot's lock, so two concurrent callers can never both claim the
// same free slot. If the full scan yields nothing, AllBusyError is returned.
func (a *Allocator) AcquireAny() (*Claim, error) {
	for id := 1; id <= a.poolSize; id++ {
		lock, err := a.store.TryLock(id)
		if errors.Is(err, ErrAlreadyLocked) {
			continue
		}
		if err != nil {
			return nil, err
		}

		rec, err := a.store.Read(id)
		if err != nil {
			_ = lock.Release()
			return nil, err
		}
		if rec.InUse {
			if err := lock.Release(); err != nil {
				return nil, err
			}
			continue
		}

		return &Claim{record: rec, lock: lock, store: a.store}, nil
	}

	return nil, &AllBusyError{PoolSize: a.poolSize}
}

// Status is a point-in-time view of one slot, for inspection commands.
type Status struct {
	Record Record
	Locked bool
}

// Snapshot reports lock and in-use state for every slot in the pool. Slots
// locked by other processes are reported with their last persisted record.
func (a *Allocator) Snapshot() ([]Status, error) {
	statuses := make([]Status, 0, a.poolSize)
	for id := 1; id <= a.poolSize; id++ {
		rec, err := a.store.Read(id)
		if err != nil {
			return nil, err
		}

		st := Status{Record: rec}
		lock, err := a.store.TryLock(id)
		if errors.Is(err, ErrAlreadyLocked) {
			st.Locked = true
		} else if err != nil {
			return nil, err
		} else if err := lock.Release(); err != nil {
			return nil, err
		}

		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Claim is a held slot: the lock plus the record read under it. Release must
// run on every exit path; marking in-use is independent of the lock lifetime.
type Claim struct {
	record   Record
	lock     Lock
	store    Store
	released bool
}

// SlotID returns the claimed slot's id.
func (c *Claim) SlotID() int {
	return c.lock.SlotID()
}

// Record returns the record read when the claim was taken.
func (c *Claim) Record() Record {
	return c.record
}

// MarkInUse persists InUse=true with the occupying device's name, so later
// processes recognize the slot as occupied after this process exits.
func (c *Claim) MarkInUse(deviceName string) error {
	c.record.InUse = true
	c.record.DeviceName = deviceName
	return c.store.Write(c.SlotID(), c.record)
}

// MarkFree persists InUse=false, returning the slot to the pool.
func (c *Claim) MarkFree() error {
	c.record.InUse = false
	c.record.DeviceName = ""
	return c.store.Write(c.SlotID(), c.record)
}

// Release releases the slot's lock. It is idempotent so deferred releases
// stay safe on paths that already released explicitly.
func (c *Claim) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	return c.lock.Release()
}
