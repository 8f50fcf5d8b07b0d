package orchestration

import (
	"errors"
	"fmt"
)

// DeleteBySlot tears down whatever device occupies the slot, mirroring
// creation's locking discipline: lock the slot, tear down, persist
// inUse=false, release the lock. The flag is cleared even when teardown
// itself errors.
func (o *Orchestrator) DeleteBySlot(ctx *Context, id int) error {
	if o.allocator == nil {
		return errors.New("slot teardown requires the local variant")
	}

	claim, err := o.allocator.AcquireSpecific(id)
	if err != nil {
		return err
	}
	defer func() { _ = claim.Release() }()

	rec := claim.Record()
	if !rec.InUse {
		ctx.Observer.Printf("slot %d is not in use, nothing to tear down", id)
		return nil
	}

	handle := &InstanceHandle{Name: rec.DeviceName, SlotID: id, Address: "127.0.0.1"}

	var teardownErr error
	if err := o.launcher.Stop(ctx, handle); err != nil {
		teardownErr = fmt.Errorf("failed to stop device %s: %w", rec.DeviceName, err)
	}
	if err := o.backend.Delete(ctx, rec.DeviceName); err != nil {
		teardownErr = errors.Join(teardownErr, fmt.Errorf("failed to delete instance %s: %w", rec.DeviceName, err))
	}

	// The slot returns to the pool even when teardown failed; a stale
	// in-use flag would leak the slot forever.
	if err := claim.MarkFree(); err != nil {
		teardownErr = errors.Join(teardownErr, err)
	}

	if teardownErr == nil {
		ctx.Observer.Printf("deleted device %s from slot %d", rec.DeviceName, id)
	}
	return teardownErr
}

// DeleteByIdentity resolves a device name to its slot for the local variant,
// or tears the named remote instance down directly.
func (o *Orchestrator) DeleteByIdentity(ctx *Context, name string) error {
	if o.allocator == nil {
		if err := o.backend.Delete(ctx, name); err != nil {
			return fmt.Errorf("failed to delete instance %s: %w", name, err)
		}
		ctx.Observer.Printf("deleted remote device %s", name)
		return nil
	}

	statuses, err := o.allocator.Snapshot()
	if err != nil {
		return err
	}
	for _, st := range statuses {
		if st.Record.InUse && st.Record.DeviceName == name {
			return o.DeleteBySlot(ctx, st.Record.ID)
		}
	}
	return fmt.Errorf("no slot is occupied by device %q", name)
}
