// Package policy loads retry policy rules from a YAML file and registers
// them as redial providers, preserving file order so earlier rules take
// priority.
package policy

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/redial/pkg/redial"
)

// ErrPolicyNotFound is returned when the policy file does not exist.
// Callers can check for this with errors.Is(err, policy.ErrPolicyNotFound).
var ErrPolicyNotFound = errors.New("policy file not found")

// DefaultFileName is the policy file looked up when no path is given.
const DefaultFileName = "redial.yaml"

// Rule describes retry parameters for targets of one driver, optionally
// narrowed to DSNs containing a substring. Duration fields use Go duration
// syntax ("30s", "1m"). Absent fields fall back to the stock defaults.
type Rule struct {
	Driver        string  `yaml:"driver"`
	DSNContains   string  `yaml:"dsn_contains,omitempty"`
	TotalDelay    string  `yaml:"total_delay,omitempty"`
	StartDelay    string  `yaml:"start_delay,omitempty"`
	BackoffFactor float64 `yaml:"backoff_factor,omitempty"`
	MaxDelay      string  `yaml:"max_delay,omitempty"`
	Verbose       int     `yaml:"verbose,omitempty"`
}

// File is the top-level policy document.
type File struct {
	Policies []Rule `yaml:"policies"`
}

// Load reads and parses a policy file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return &f, nil
}

// Apply converts every rule into a provider and registers it, in file
// order. Malformed rules fail here, at setup time, rather than during a
// dial.
func (f *File) Apply(reg *redial.Registry) error {
	for i, rule := range f.Policies {
		provider, err := rule.Provider()
		if err != nil {
			return fmt.Errorf("policy rule %d: %w", i+1, err)
		}
		reg.Register(rule.Driver, provider)
	}
	return nil
}

// Provider builds the redial provider a rule describes.
func (r Rule) Provider() (redial.Provider, error) {
	if r.Driver == "" {
		return nil, fmt.Errorf("%w: rule has no driver", redial.ErrInvalidConfig)
	}

	cfg := redial.DefaultConfig()
	if err := setDuration(&cfg.TotalDelay, r.TotalDelay, "total_delay"); err != nil {
		return nil, err
	}
	if err := setDuration(&cfg.StartDelay, r.StartDelay, "start_delay"); err != nil {
		return nil, err
	}
	if err := setDuration(&cfg.MaxDelay, r.MaxDelay, "max_delay"); err != nil {
		return nil, err
	}
	if r.BackoffFactor != 0 {
		cfg.BackoffFactor = r.BackoffFactor
	}
	if r.TotalDelay != "" && r.MaxDelay == "" {
		// The cap derives from the rule's own budget, not the default one.
		cfg.MaxDelay = cfg.TotalDelay / 4
	}
	cfg.Verbose = r.Verbose

	if err := cfg.Normalize().Validate(); err != nil {
		return nil, err
	}

	match := r.DSNContains
	return func(t redial.Target) *redial.Config {
		if match != "" && !strings.Contains(t.DSN, match) {
			return nil
		}
		c := cfg
		return &c
	}, nil
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", redial.ErrInvalidConfig, field, raw, err)
	}
	*dst = d
	return nil
}
