package redial

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// backoff tracks the retry budget for one failing dial sequence. It is
// built lazily on the first failure, owned exclusively by the loop that
// created it, and discarded when the loop exits, so it needs no locking.
// Only remaining and next mutate, and only inside pause.
type backoff struct {
	target Target
	seq    string // correlation id for log events

	// mutable counters
	remaining time.Duration // budget left, decremented by actual delays
	next      time.Duration // undamped delay for the next attempt

	// immutable after construction
	maxDelay time.Duration
	factor   float64
	verbose  int

	logger  Logger
	randFn  func() float64
	sleepFn func(ctx context.Context, d time.Duration) error
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// newBackoff builds the per-sequence retry state from a resolved config.
// cfg must already be normalized and validated.
func newBackoff(cfg *Config, t Target, logger Logger, randFn func() float64, sleepFn func(context.Context, time.Duration) error, cause error) *backoff {
	if logger == nil {
		logger = nopLogger{}
	}
	if randFn == nil {
		randFn = rand.Float64
	}
	if sleepFn == nil {
		sleepFn = sleepContext
	}
	b := &backoff{
		target:    t,
		seq:       uuid.NewString(),
		remaining: cfg.TotalDelay,
		next:      cfg.StartDelay,
		maxDelay:  cfg.MaxDelay,
		factor:    cfg.BackoffFactor,
		verbose:   cfg.Verbose,
		logger:    logger,
		randFn:    randFn,
		sleepFn:   sleepFn,
	}
	if b.verbose >= 2 {
		b.logger.Verbose("redial %s: retry enabled for %s after %q (budget=%v start=%v factor=%v cap=%v)",
			b.seq, b.target, cause, b.remaining, b.next, b.factor, b.maxDelay)
	}
	return b
}

// pause performs one step of the budget state machine: it reports false
// without sleeping when the budget is exhausted, otherwise it sleeps for
// the next jittered delay and reports true.
//
// The delay is drawn uniformly from [next/2, next) after capping next at
// maxDelay, which desynchronizes concurrent retriers. The actual delay
// taken, not the nominal one, is charged against the budget, so elapsed
// retrying time is approximate and can overshoot by up to one maxDelay.
func (b *backoff) pause(ctx context.Context, cause error) (bool, error) {
	if b.remaining <= 0 {
		if b.verbose >= 3 {
			b.logger.Verbose("redial %s: budget exhausted for %s, giving up after %q",
				b.seq, b.target, cause)
		}
		return false, nil
	}

	if b.next > b.maxDelay {
		b.next = b.maxDelay
	}
	half := b.next / 2
	delay := half + time.Duration(b.randFn()*float64(half))

	b.remaining -= delay
	undamped := time.Duration(float64(b.next) * b.factor)
	b.next = undamped

	if b.verbose >= 3 {
		if b.verbose >= 4 {
			b.logger.Verbose("redial %s: %s failed with %q, sleeping %v (remaining=%v next=%v)",
				b.seq, b.target, cause, delay, b.remaining, undamped)
		} else {
			b.logger.Verbose("redial %s: %s failed with %q, sleeping %v",
				b.seq, b.target, cause, delay)
		}
	}

	if err := b.sleepFn(ctx, delay); err != nil {
		return false, err
	}
	return true, nil
}
