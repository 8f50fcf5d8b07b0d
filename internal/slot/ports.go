package slot

// Each slot owns a fixed span of consecutive loopback ports. The pool size is
// bounded by how many spans fit between BasePort and PortLimit, which is what
// makes the pool finite on a single host.
const (
	// BasePort is the first port of slot 1's span.
	BasePort = 6520

	// PortsPerSlot is the number of consecutive ports reserved per slot
	// (health endpoint, serial console, VNC, spare).
	PortsPerSlot = 4

	// PortLimit is the first port past the reservable range.
	PortLimit = 6584
)

// DefaultPoolSize derives the slot pool size from the reserved port range.
func DefaultPoolSize() int {
	return (PortLimit - BasePort) / PortsPerSlot
}

func basePortFor(id int) int {
	return BasePort + (id-1)*PortsPerSlot
}

// HealthPort returns the device health endpoint port for a slot.
func HealthPort(id int) int {
	return basePortFor(id)
}

// ConsolePort returns the serial console port for a slot.
func ConsolePort(id int) int {
	return basePortFor(id) + 1
}

// VNCPort returns the VNC display port for a slot.
func VNCPort(id int) int {
	return basePortFor(id) + 2
}
