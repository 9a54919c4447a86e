// Package redial wraps a connection-establishment primitive so transient
// failures are retried automatically with exponentially growing, jittered
// delays until the connection succeeds or a total time budget runs out.
// Callers observe only success or the final failure; individual retries
// are invisible.
//
// # Example Usage
//
//	reg := redial.NewRegistry()
//	reg.Register("postgres", func(t redial.Target) *redial.Config {
//	    cfg := redial.DefaultConfig()
//	    cfg.TotalDelay = 10 * time.Second
//	    return &cfg
//	})
//
//	dial := redial.Wrap(db.PoolDialer(), reg)
//	pool, err := dial(ctx, redial.Target{Driver: "postgres", DSN: dsn})
//
// # Policy Resolution
//
// A Registry holds an ordered provider chain per driver. On the first
// failure of a dial the chain is evaluated against the exact target of the
// call; the first provider returning a non-nil Config wins. When no provider
// matches, the failure is returned to the caller immediately and the wrapper
// is indistinguishable from the raw dialer.
//
// # Budget Accounting
//
// The time budget is decremented by the actual jittered delay taken, not by
// a nominal schedule, so total elapsed retrying time is approximate and may
// overshoot by up to one MaxDelay plus the duration of the final dial
// attempt. This is deliberate.
//
// # Cancellation
//
// There is no dedicated cancellation primitive. The pause between attempts
// honors the context passed to the dial, so cancelling that context is the
// way to abort an in-flight retry loop.
package redial
