package security

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Event represents a noteworthy action, such as a rejected check or a logs
// API access.
type Event struct {
	Kind     string
	Subject  string
	IP       string
	Metadata map[string]any
	Occurred time.Time
}

// Recorder records events for later analysis.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// LoggerRecorder writes audit events to a slog.Logger.
type LoggerRecorder struct {
	logger *slog.Logger
}

// NewLoggerRecorder returns a recorder writing to logger (discards when nil).
func NewLoggerRecorder(logger *slog.Logger) *LoggerRecorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggerRecorder{logger: logger}
}

// Record implements Recorder.
func (r *LoggerRecorder) Record(ctx context.Context, event Event) {
	if r == nil || r.logger == nil {
		return
	}
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}
	r.logger.InfoContext(ctx, "audit event",
		"kind", event.Kind,
		"subject", event.Subject,
		"ip", event.IP,
		"metadata", event.Metadata,
		"occurred", event.Occurred.Format(time.RFC3339Nano),
	)
}
