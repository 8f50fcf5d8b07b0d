// Package artifact resolves device images and delivers them onto the device
// host. Local image trees are pushed as-is; build identifiers are fetched
// from object storage into a local cache first, then pushed.
package artifact
