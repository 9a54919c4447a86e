package redial

import (
	"context"
	"fmt"
	"time"
)

// Dialer is the shape of a connection-establishment primitive: given a
// target it returns a handle or an error. The wrapper produced by Wrap has
// this exact shape, so existing callers need no changes.
type Dialer[T any] func(ctx context.Context, target Target) (T, error)

// Option configures the wrapper produced by Wrap.
type Option func(*options)

type options struct {
	logger  Logger
	randFn  func() float64
	sleepFn func(ctx context.Context, d time.Duration) error
	retryIf func(error) bool
}

// WithLogger sets the sink for retry log events. Defaults to a no-op
// logger; what is emitted is governed by the resolved config's verbosity.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRandFunc sets the source of jitter values in [0, 1). The default is
// math/rand. Tests inject a deterministic function for reproducibility.
func WithRandFunc(f func() float64) Option {
	return func(o *options) {
		o.randFn = f
	}
}

// WithSleepFunc replaces the pause between attempts. The default honors
// context cancellation. Tests inject a recording no-op to avoid real
// sleeping.
func WithSleepFunc(f func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		o.sleepFn = f
	}
}

// WithRetryIf limits retry to errors the predicate accepts; other failures
// return to the caller immediately. The default retries every failure.
func WithRetryIf(pred func(error) bool) Option {
	return func(o *options) {
		o.retryIf = pred
	}
}

// Wrap returns a dialer with the same contract as dial that retries
// transient failures per the policy reg resolves for each target.
//
// The success path has no overhead: no state is allocated and no policy is
// resolved until the first failure. When no provider matches, or the
// budget runs out, the caller receives the last failure from dial
// unchanged; the wrapper never invents its own error for a failed connect.
func Wrap[T any](dial Dialer[T], reg *Registry, opts ...Option) Dialer[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context, target Target) (T, error) {
		handle, err := dial(ctx, target)
		if err == nil {
			return handle, nil
		}

		var state *backoff
		for {
			if o.retryIf != nil && !o.retryIf(err) {
				return handle, err
			}

			if state == nil {
				cfg, cfgErr := reg.Resolve(target)
				if cfgErr != nil {
					var zero T
					return zero, fmt.Errorf("redial: %w", cfgErr)
				}
				if cfg == nil {
					// No policy for this target; behave exactly
					// like the raw dialer.
					return handle, err
				}
				state = newBackoff(cfg, target, o.logger, o.randFn, o.sleepFn, err)
			}

			paused, pauseErr := state.pause(ctx, err)
			if pauseErr != nil {
				var zero T
				return zero, pauseErr
			}
			if !paused {
				return handle, err
			}

			handle, err = dial(ctx, target)
			if err == nil {
				return handle, nil
			}
		}
	}
}
