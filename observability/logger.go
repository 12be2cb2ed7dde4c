package observability

import (
	"log/slog"
	"os"
	"time"

	"advisormesh/core"
)

// Logger defines the minimal logging interface for AdvisorMesh.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewJSONLogger creates a Logger emitting JSON records to stderr at the given level.
func NewJSONLogger(level slog.Level) Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler))
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// LogRouting records a routing decision for one query.
func LogRouting(l Logger, sessionID string, dec core.RoutingDecision, cached bool) {
	l.Info("query routed",
		"session_id", sessionID,
		"categories", dec.Categories,
		"parallel", dec.Parallel,
		"reasoning", dec.Reasoning,
		"cached", cached,
	)
}

// LogAgentExecution records the outcome of one specialist invocation.
func LogAgentExecution(l Logger, sessionID string, res core.AgentResult) {
	if res.Success {
		l.Info("agent completed",
			"session_id", sessionID,
			"category", res.Category,
			"duration", res.Latency,
			"sources", len(res.Sources),
		)
		return
	}
	l.Warn("agent failed",
		"session_id", sessionID,
		"category", res.Category,
		"duration", res.Latency,
		"timed_out", res.TimedOut,
		"error", errString(res.Err),
	)
}

// LogToolCall records execution details for a structured lookup.
func LogToolCall(l Logger, tool string, dur time.Duration, err error) {
	if err != nil {
		l.Warn("tool lookup failed", "tool", tool, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("tool lookup completed", "tool", tool, "duration", dur)
}

// LogModelCall records model call latency and success.
func LogModelCall(l Logger, modelName string, dur time.Duration, err error) {
	if err != nil {
		l.Warn("model call failed", "model", modelName, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("model call completed", "model", modelName, "duration", dur)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
