package local

import "syscall"

var (
	// noopSignal probes a process for liveness.
	noopSignal = syscall.Signal(0)
	// termSignal asks a device process to shut down cleanly.
	termSignal = syscall.SIGTERM
)
