// Package config defines the device specification loaded from YAML and the
// environment-driven timeout knobs used across the creation pipeline.
package config
