package redial

// Logger provides a pluggable logging sink for retry events.
// Implementations must be safe for concurrent use by multiple goroutines.
//
// The retry engine decides what to emit from the resolved configuration's
// verbosity level; implementations only render.
type Logger interface {
	// Verbose logs detailed diagnostic information about retry progress.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}

// nopLogger discards everything. It is the default when no Logger is
// supplied to Wrap.
type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Error(string, ...interface{})   {}
