// Package hcloud provisions remote device hosts on Hetzner Cloud. It wraps
// the Hetzner API behind a narrow interface so the compute backend can be
// exercised against mocks, and implements reuse-or-create semantics for
// ephemeral instances.
package hcloud
