package redial

import (
	"fmt"
	"sync"
)

// Registry holds ordered provider chains keyed by driver name. Providers
// are registered once at startup and resolved concurrently by many dials;
// registration appends, it never replaces, so earlier-registered providers
// keep priority. Removal is not supported.
type Registry struct {
	mu        sync.RWMutex
	providers map[string][]Provider

	// defaultVerbose fills Config.Verbose when the winning provider left
	// it unset. Fixed at construction.
	defaultVerbose int
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithDefaultVerbosity sets the log detail level applied to resolved
// configurations that do not carry their own. Pair with VerbosityFromEnv
// to source it from the environment.
func WithDefaultVerbosity(level int) RegistryOption {
	return func(r *Registry) {
		r.defaultVerbose = level
	}
}

// NewRegistry creates an empty provider registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: make(map[string][]Provider),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a provider to the chain for driver. A nil provider
// installs DefaultProvider, enabling retry with stock parameters for every
// target of that driver.
func (r *Registry) Register(driver string, p Provider) {
	if p == nil {
		p = DefaultProvider
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[driver] = append(r.providers[driver], p)
}

// Resolve evaluates the provider chain for t.Driver strictly in
// registration order and returns the first non-nil configuration,
// normalized and validated. A nil config with nil error means no policy
// matched and retry does not apply. An invalid configuration is a setup
// mistake and is returned loudly rather than silently disabling retry.
func (r *Registry) Resolve(t Target) (*Config, error) {
	r.mu.RLock()
	chain := r.providers[t.Driver]
	r.mu.RUnlock()

	for _, p := range chain {
		cfg := p(t)
		if cfg == nil {
			continue
		}
		resolved := cfg.Normalize()
		if resolved.Verbose == 0 {
			resolved.Verbose = r.defaultVerbose
		}
		if err := resolved.Validate(); err != nil {
			return nil, fmt.Errorf("retry policy for %s: %w", t, err)
		}
		return &resolved, nil
	}
	return nil, nil
}

// Registered reports whether any provider is registered for driver.
func (r *Registry) Registered(driver string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers[driver]) > 0
}
