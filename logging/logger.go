// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a SessionLogger with contextual
// helpers for turn, selection and handoff events.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger defines the minimal logging interface for Convoke. Users can
// provide their own implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug implements Logger.
func (NoOpLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NoOpLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NoOpLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NoOpLogger) Error(string, ...any) {}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Config configures construction of a SessionLogger.
type Config struct {
	Level     slog.Level
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
}

// DefaultConfig returns a baseline JSON info-level configuration.
func DefaultConfig() *Config {
	return &Config{Level: slog.LevelInfo, Format: "json", Output: os.Stdout}
}

// SessionLogger wraps slog.Logger with session and agent context attached to
// every entry plus convenience helpers for orchestration events. With*
// methods return cheap copies.
type SessionLogger struct {
	logger    *slog.Logger
	sessionID string
	agentID   string
}

// NewSessionLogger builds a SessionLogger from a config (or defaults if nil).
func NewSessionLogger(cfg *Config) *SessionLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &SessionLogger{logger: slog.New(handler)}
}

// WithSession attaches a session identifier to subsequent entries.
func (l *SessionLogger) WithSession(sessionID string) *SessionLogger {
	nl := *l
	nl.sessionID = sessionID
	return &nl
}

// WithAgent attaches an agent identifier to subsequent entries.
func (l *SessionLogger) WithAgent(agentID string) *SessionLogger {
	nl := *l
	nl.agentID = agentID
	return &nl
}

func (l *SessionLogger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+4)
	if l.sessionID != "" {
		out = append(out, "session_id", l.sessionID)
	}
	if l.agentID != "" {
		out = append(out, "agent_id", l.agentID)
	}
	return append(out, args...)
}

// Debug implements Logger.
func (l *SessionLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info implements Logger.
func (l *SessionLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn implements Logger.
func (l *SessionLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error implements Logger.
func (l *SessionLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogTurn records one completed turn of the coordination loop.
func (l *SessionLogger) LogTurn(turn int, agent string, dur time.Duration, err error) {
	args := l.attrs([]any{"turn", turn, "agent", agent, "duration", dur})
	if err != nil {
		l.logger.Error("turn failed", append(args, "error", err.Error())...)
		return
	}
	l.logger.Info("turn completed", args...)
}

// LogHandoffFallback records a declared transfer that could not be resolved
// against the handoff table.
func (l *SessionLogger) LogHandoffFallback(source, declared string) {
	l.logger.Warn("handoff target not resolvable, falling back to selection policy",
		l.attrs([]any{"source", source, "declared_target", declared})...)
}
