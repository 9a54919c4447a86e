package redial

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios. These enable callers to
// distinguish error types using errors.Is().
var (
	// ErrInvalidConfig indicates a resolved retry configuration is invalid.
	// It surfaces at policy setup or resolution, never as a substitute for
	// the wrapped primitive's own failure.
	ErrInvalidConfig = errors.New("invalid retry configuration")

	// ErrConnectionFailed indicates the dial ultimately failed. Used by
	// command-line surfaces to classify exit codes; the retry engine
	// itself always returns the primitive's own error unchanged.
	ErrConnectionFailed = errors.New("connection failed")
)

// Exit codes for semantic error classification, following Unix/GNU
// conventions: 0 success, 1 general error, 2 CLI usage error, 3+
// application-specific.
const (
	ExitSuccess         = 0  // Dial completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid retry policy or parameters
	ExitConnectionError = 11 // Failed to connect after exhausting the budget
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitConnectionError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
