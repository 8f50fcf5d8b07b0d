package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the device specification from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses a device specification, applies defaults, and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	// Defaults
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = "devlab"
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantLocal
	}
	if cfg.Hardware.CPUs == 0 {
		cfg.Hardware.CPUs = 2
	}
	if cfg.Hardware.MemoryMB == 0 {
		cfg.Hardware.MemoryMB = 2048
	}
	if cfg.Remote.User == "" {
		cfg.Remote.User = "root"
	}

	if err := cfg.Image.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
