package orbit

import (
	"io"
	"log/slog"
	"os"

	"github.com/accelwork/orbit/lattice"
)

// Logger wraps slog.Logger with orbit-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithState adds a tracking-state field to the logger.
func (l *Logger) WithState(state int) *Logger {
	return &Logger{
		Logger: l.Logger.With("state", state),
	}
}

// WithSegment adds an active-segment field to the logger.
func (l *Logger) WithSegment(seg lattice.Segment) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", seg.String()),
	}
}

// LogTrack logs a beam tracking operation.
func (l *Logger) LogTrack(state int, seg lattice.Segment, incremental bool, err error) {
	if err != nil {
		l.Error("beam tracking failed",
			"state", state,
			"segment", seg.String(),
			"incremental", incremental,
			"error", err,
		)
	} else {
		l.Debug("beam tracking completed",
			"state", state,
			"segment", seg.String(),
			"incremental", incremental,
		)
	}
}

// LogAdvance logs an incremental gap-closing advance of a cached bunch.
func (l *Logger) LogAdvance(state int, seg lattice.Segment) {
	l.Debug("advancing cached bunch",
		"state", state,
		"segment", seg.String(),
	)
}

// LogOrbitSearch logs a closed-orbit search.
func (l *Logger) LogOrbitSearch(seg lattice.Segment, iterations int, residual float64, err error) {
	if err != nil {
		l.Error("closed orbit search failed",
			"segment", seg.String(),
			"error", err,
		)
	} else {
		l.Debug("closed orbit found",
			"segment", seg.String(),
			"iterations", iterations,
			"residual", residual,
		)
	}
}

// LogInitialise logs a tracking (re)initialization.
func (l *Logger) LogInitialise(states int) {
	l.Info("tracking initialised",
		"states", states,
	)
}

// LogEngineChange logs an engine re-assignment, which invalidates all cached
// tracking state.
func (l *Logger) LogEngineChange(states int) {
	l.Info("tracking engine replaced, cached bunches reset",
		"states", states,
	)
}
