package orchestration

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Observer receives structured events from the orchestrator.
type Observer interface {
	// Printf logs a plain formatted message.
	Printf(format string, v ...any)

	// Event emits a structured event.
	Event(event Event)

	// WithFields returns an Observer carrying additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured orchestration event.
type Event struct {
	Type     EventType
	Device   string
	Stage    Stage
	Message  string
	Err      error
	Duration time.Duration
}

// EventType classifies orchestration events.
type EventType string

const (
	// EventStageStarted indicates a pipeline stage has started.
	EventStageStarted EventType = "stage.started"
	// EventStageCompleted indicates a pipeline stage completed.
	EventStageCompleted EventType = "stage.completed"
	// EventDeviceReady indicates a device reached ready state.
	EventDeviceReady EventType = "device.ready"
	// EventDeviceFailed indicates an attempt failed.
	EventDeviceFailed EventType = "device.failed"
	// EventSlotAcquired indicates a local slot was claimed.
	EventSlotAcquired EventType = "slot.acquired"
	// EventPreempted indicates a conflicting device was terminated.
	EventPreempted EventType = "preempt.terminated"
	// EventDiagnostics indicates best-effort diagnostics were collected.
	EventDiagnostics EventType = "diagnostics.collected"
)

// ZerologObserver implements Observer over a zerolog logger.
type ZerologObserver struct {
	log zerolog.Logger
}

// NewConsoleObserver returns an Observer writing human-readable output to stderr.
func NewConsoleObserver() *ZerologObserver {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return &ZerologObserver{log: zerolog.New(writer).With().Timestamp().Logger()}
}

// NewObserver wraps an existing zerolog logger. Tests pass zerolog.Nop().
func NewObserver(log zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{log: log}
}

// Printf implements Observer.
func (o *ZerologObserver) Printf(format string, v ...any) {
	o.log.Info().Msgf(format, v...)
}

// Event implements Observer.
func (o *ZerologObserver) Event(event Event) {
	var entry *zerolog.Event
	switch event.Type {
	case EventDeviceFailed:
		entry = o.log.Error()
	case EventPreempted:
		entry = o.log.Warn()
	default:
		entry = o.log.Info()
	}

	entry = entry.Str("event", string(event.Type))
	if event.Device != "" {
		entry = entry.Str("device", event.Device)
	}
	if event.Stage != "" {
		entry = entry.Str("stage", string(event.Stage))
	}
	if event.Duration > 0 {
		entry = entry.Dur("duration", event.Duration)
	}
	if event.Err != nil {
		entry = entry.Err(event.Err)
	}
	entry.Msg(event.Message)
}

// WithFields implements Observer.
func (o *ZerologObserver) WithFields(fields map[string]string) Observer {
	logCtx := o.log.With()
	for k, v := range fields {
		logCtx = logCtx.Str(k, v)
	}
	return &ZerologObserver{log: logCtx.Logger()}
}
