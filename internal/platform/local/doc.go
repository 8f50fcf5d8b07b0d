// Package local runs device instances on the operator's own machine. It
// provides the compute backend, process launcher, conflict checker, transport
// and diagnostics for the local variant, all rooted in the state directory.
//
// Layout under the state directory:
//
//	instances/<name>/   staged artifacts and logs for one device
//	run/slot-<id>.pid   pid of the process bound to a slot's port span
package local
