// Package logging provides concrete implementations of the redial.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes prefixed messages to a writer with thread-safe output
//   - SlogLogger: routes messages through a log/slog handler (tinted for TTYs)
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
