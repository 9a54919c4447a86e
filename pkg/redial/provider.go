package redial

// Provider inspects the exact target of a failing dial and optionally
// supplies retry configuration. A nil result means this provider has no
// policy for the target and the next provider in the chain is consulted.
//
// Providers may be called concurrently from many dials and must be safe
// for concurrent invocation.
type Provider func(t Target) *Config

// DefaultProvider returns stock configuration for every target. It is the
// provider installed when Register is handed a nil provider.
func DefaultProvider(Target) *Config {
	cfg := DefaultConfig()
	return &cfg
}
