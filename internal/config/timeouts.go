package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	CreateBudget      time.Duration // Total allowance for the artifact + boot-wait window
	StopWait          time.Duration // Bound on waiting for a pre-empted device to stop
	BootPollInterval  time.Duration // Interval between boot liveness probes
	StopPollInterval  time.Duration // Interval between stop-confirmation probes
	InstanceAddress   time.Duration // Timeout for waiting for a host address assignment
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - DEVLAB_TIMEOUT_CREATE_BUDGET (default: 15m)
//   - DEVLAB_TIMEOUT_STOP_WAIT (default: 30s)
//   - DEVLAB_BOOT_POLL_INTERVAL (default: 2s)
//   - DEVLAB_STOP_POLL_INTERVAL (default: 500ms)
//   - DEVLAB_TIMEOUT_INSTANCE_ADDRESS (default: 60s)
//   - DEVLAB_RETRY_MAX_ATTEMPTS (default: 5)
//   - DEVLAB_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		CreateBudget:      parseDuration("DEVLAB_TIMEOUT_CREATE_BUDGET", 15*time.Minute),
		StopWait:          parseDuration("DEVLAB_TIMEOUT_STOP_WAIT", 30*time.Second),
		BootPollInterval:  parseDuration("DEVLAB_BOOT_POLL_INTERVAL", 2*time.Second),
		StopPollInterval:  parseDuration("DEVLAB_STOP_POLL_INTERVAL", 500*time.Millisecond),
		InstanceAddress:   parseDuration("DEVLAB_TIMEOUT_INSTANCE_ADDRESS", 60*time.Second),
		RetryMaxAttempts:  parseInt("DEVLAB_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("DEVLAB_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
