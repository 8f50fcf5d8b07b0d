// Package slot manages the fixed pool of numbered local device slots.
//
// Each slot is backed by an advisory lock file plus a small persisted record
// carrying the in-use flag. The lock is ephemeral (held only while a process
// actively mutates the slot, released by the OS if the process dies); the
// in-use flag outlives the process and marks slots occupied by live devices.
//
// Correctness of AcquireAny across concurrent processes rests on a single
// atomic step: the in-use flag is only ever read or written while holding the
// slot's lock, so "lock-if-not-in-use" cannot race with another process
// evaluating the same slot.
package slot
