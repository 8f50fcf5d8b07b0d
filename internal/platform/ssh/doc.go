// Package ssh implements the device transport over SSH. It handles
// connection establishment with retry logic, key-based authentication,
// command execution, and file delivery to remote device hosts.
//
// Security: host key verification is disabled by default since the targets
// are ephemeral instances. Configure HostKeyCallback when pointing at
// persistent servers.
package ssh
