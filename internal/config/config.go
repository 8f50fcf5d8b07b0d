package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Variant selects where device instances run.
type Variant string

const (
	// VariantLocal runs devices in numbered slots on this host.
	VariantLocal Variant = "local"
	// VariantRemote runs devices on freshly created (or reused) cloud hosts.
	VariantRemote Variant = "remote"
)

// Config is the parsed device specification.
type Config struct {
	// NamePrefix is prepended to generated device names.
	NamePrefix string `yaml:"name_prefix"`

	// Variant selects the local-slot or remote-host backend.
	Variant Variant `yaml:"variant"`

	// Image selects where device artifacts come from.
	Image ImageSource `yaml:"image"`

	// Hardware describes the virtual device's resources.
	Hardware Hardware `yaml:"hardware"`

	// LaunchArgs are extra arguments passed to the device bring-up command.
	LaunchArgs []string `yaml:"launch_args"`

	// Remote configures the cloud backend (remote variant only).
	Remote RemoteConfig `yaml:"remote"`

	// Artifact configures the build-artifact source for remote image builds.
	Artifact ArtifactConfig `yaml:"artifact"`

	// MaxSlots overrides the derived local slot pool size. Zero means derive
	// from the reserved port range.
	MaxSlots int `yaml:"max_slots"`

	// StateDir overrides where slot locks and records live. Empty means the
	// per-user default under the home directory.
	StateDir string `yaml:"state_dir"`
}

// Hardware describes the virtual device's resources.
type Hardware struct {
	CPUs     int `yaml:"cpus"`
	MemoryMB int `yaml:"memory_mb"`
}

// RemoteConfig configures the cloud compute backend.
type RemoteConfig struct {
	// ServerType is the cloud instance type hosting the device.
	ServerType string `yaml:"server_type"`

	// Location is the cloud datacenter location.
	Location string `yaml:"location"`

	// BaseImage is the OS image for freshly created hosts.
	BaseImage string `yaml:"base_image"`

	// User is the SSH login user on the host.
	User string `yaml:"user"`

	// SSHKeyPath points at the private key used for the host transport.
	SSHKeyPath string `yaml:"ssh_key_path"`

	// ReuseInstance allows adopting an existing host carrying the device's
	// name instead of failing the creation.
	ReuseInstance bool `yaml:"reuse_instance"`
}

// ArtifactConfig configures the S3 build bucket remote images are fetched from.
type ArtifactConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// StateDirOrDefault returns the configured state dir, or the per-user default.
func (c *Config) StateDirOrDefault() string {
	if c.StateDir != "" {
		return c.StateDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "devlab")
	}
	return filepath.Join(home, ".devlab")
}

// Validate checks the configuration for contradictions before a batch starts.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantLocal, VariantRemote:
	case "":
		return fmt.Errorf("variant must be set to %q or %q", VariantLocal, VariantRemote)
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}

	if err := c.Image.Validate(); err != nil {
		return err
	}

	if c.Variant == VariantRemote {
		if c.Remote.ServerType == "" {
			return fmt.Errorf("remote.server_type is required for the remote variant")
		}
		if c.Image.Kind == ImageSourceRemote && c.Artifact.Bucket == "" {
			return fmt.Errorf("artifact.bucket is required when fetching a remote build")
		}
	}

	if c.MaxSlots < 0 {
		return fmt.Errorf("max_slots cannot be negative, got %d", c.MaxSlots)
	}
	if c.Hardware.CPUs < 0 || c.Hardware.MemoryMB < 0 {
		return fmt.Errorf("hardware resources cannot be negative")
	}

	return nil
}
