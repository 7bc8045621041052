package engine

import (
	"context"
	"log/slog"
)

// LoggingObserver logs lifecycle events using structured logging.
// Intermediate phases go to Debug; the end of each statement goes to Info.
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer on logger, or on the
// default logger when logger is nil
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	level := slog.LevelDebug
	if event.Type == EventExecuteEnd {
		level = slog.LevelInfo
	}
	lo.logger.Log(context.Background(), level, "query_lifecycle",
		"event", event.Type,
		"trace_id", event.TraceID,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
