package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLogger writes prefixed log messages to a single writer.
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr}
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to out. Used by tests
// to capture output.
func NewConsoleLoggerTo(out io.Writer) *ConsoleLogger {
	return &ConsoleLogger{out: out}
}

// Verbose logs detailed diagnostic information.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	l.write("[VERBOSE] ", format, args...)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("", format, args...)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[ERROR] ", format, args...)
}

func (l *ConsoleLogger) write(prefix, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(l.out, prefix+format+"\n", args...)
		return
	}
	fmt.Fprint(l.out, prefix+format+"\n")
}
