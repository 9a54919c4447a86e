package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// SlogLogger routes retry log events through a log/slog logger.
// Safe for concurrent use by multiple goroutines.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing slog logger.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewTintedLogger creates a SlogLogger with a tint handler for colorized,
// human-readable output in terminals. Verbose messages are emitted at
// debug level, so pass slog.LevelDebug to see retry diagnostics.
func NewTintedLogger(out io.Writer, level slog.Level) *SlogLogger {
	handler := tint.NewHandler(out, &tint.Options{
		Level: level,
	})
	return &SlogLogger{logger: slog.New(handler)}
}

// Verbose logs detailed diagnostic information at debug level.
func (l *SlogLogger) Verbose(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Info logs informational messages.
func (l *SlogLogger) Info(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *SlogLogger) Error(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
