// Package metrics exposes Prometheus counters for device creation outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CreateAttempts counts device creation attempts by variant.
	CreateAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlab_create_attempts_total",
		Help: "Number of device creation attempts started.",
	}, []string{"variant"})

	// CreateFailures counts failed attempts by the stage they failed in.
	CreateFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlab_create_failures_total",
		Help: "Number of device creation attempts that failed, by stage.",
	}, []string{"stage"})

	// CreateSuccesses counts devices that reached ready state.
	CreateSuccesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devlab_create_successes_total",
		Help: "Number of devices that booted to ready.",
	})

	// SlotContention counts acquisitions rejected because the pool was busy.
	SlotContention = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devlab_slot_contention_total",
		Help: "Number of slot acquisitions that found the pool exhausted.",
	})

	// StageSeconds records wall-clock time spent per pipeline stage.
	StageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devlab_stage_duration_seconds",
		Help:    "Wall-clock duration of pipeline stages.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"stage"})
)
