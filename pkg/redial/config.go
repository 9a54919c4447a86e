package redial

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultTotalDelay is the default total time budget spent retrying.
	DefaultTotalDelay = 30 * time.Second

	// DefaultStartDelay is the default delay before the first retry.
	DefaultStartDelay = 100 * time.Millisecond

	// DefaultBackoffFactor is the default multiplier applied to the delay
	// after each attempt.
	DefaultBackoffFactor = 3.0

	// VerboseEnvVar is the environment variable consulted by
	// VerbosityFromEnv for the process-wide default log detail level.
	VerboseEnvVar = "REDIAL_VERBOSE"

	// MaxVerbosity is the highest recognized log detail level.
	MaxVerbosity = 4
)

// Config holds the retry parameters a provider resolves for one dial.
// Fields are explicit values, not an open bag: build on DefaultConfig and
// override what differs. TotalDelay of zero disables retry entirely (one
// attempt, immediate exhaustion); StartDelay of zero yields no initial
// backoff before the first retry.
type Config struct {
	// TotalDelay is the total time budget to spend retrying.
	TotalDelay time.Duration

	// StartDelay is the delay before the first retry.
	StartDelay time.Duration

	// BackoffFactor multiplies the delay after each attempt. Must be
	// greater than 1; zero is treated as unset and defaulted.
	BackoffFactor float64

	// MaxDelay caps any single delay. Zero is treated as unset and
	// derived as TotalDelay/4.
	MaxDelay time.Duration

	// Verbose is the log detail level, 0 (silent) through 4 (maximum).
	// Zero is treated as unset; the registry's default verbosity fills
	// it in during resolution.
	Verbose int
}

// DefaultConfig returns the stock retry parameters: a 30s budget, 100ms
// initial delay, factor 3 growth capped at a quarter of the budget.
func DefaultConfig() Config {
	return Config{
		TotalDelay:    DefaultTotalDelay,
		StartDelay:    DefaultStartDelay,
		BackoffFactor: DefaultBackoffFactor,
	}.Normalize()
}

// Normalize returns a copy of c with derived and unset-able fields filled:
// BackoffFactor and MaxDelay have no meaningful zero and are defaulted.
// TotalDelay and StartDelay are taken literally.
func (c Config) Normalize() Config {
	if c.BackoffFactor == 0 {
		c.BackoffFactor = DefaultBackoffFactor
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = c.TotalDelay / 4
	}
	return c
}

// Validate reports whether a normalized config can drive real backoff.
// Violations wrap ErrInvalidConfig so callers can match with errors.Is.
func (c Config) Validate() error {
	if c.TotalDelay < 0 {
		return fmt.Errorf("%w: total delay %v is negative", ErrInvalidConfig, c.TotalDelay)
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("%w: start delay %v is negative", ErrInvalidConfig, c.StartDelay)
	}
	if c.BackoffFactor <= 1 {
		return fmt.Errorf("%w: backoff factor %v must be greater than 1", ErrInvalidConfig, c.BackoffFactor)
	}
	if c.MaxDelay <= 0 && c.TotalDelay > 0 {
		return fmt.Errorf("%w: max delay %v must be positive", ErrInvalidConfig, c.MaxDelay)
	}
	if c.Verbose < 0 {
		return fmt.Errorf("%w: verbosity %d is negative", ErrInvalidConfig, c.Verbose)
	}
	return nil
}

// VerbosityFromEnv returns the log detail level from REDIAL_VERBOSE,
// clamped to [0, MaxVerbosity]. Unset or unparsable values yield 0.
func VerbosityFromEnv() int {
	raw := os.Getenv(VerboseEnvVar)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	if v > MaxVerbosity {
		return MaxVerbosity
	}
	return v
}
