// Package config loads per-rule override files. An override file lets a
// project disable individual rules or raise/lower their severity without
// touching the rule catalog itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/amisstea/js-async-audit/internal/scanner"
)

// RuleOverride adjusts a single rule. A nil Enabled leaves the rule on.
type RuleOverride struct {
	Enabled  *bool  `yaml:"enabled"`
	Severity string `yaml:"severity,omitempty"`
}

// File is the parsed override configuration.
type File struct {
	Rules map[string]RuleOverride `yaml:"rules"`
}

// Default returns an empty configuration with no overrides.
func Default() *File {
	return &File{Rules: map[string]RuleOverride{}}
}

// Load reads and validates an override file. Overrides naming unknown rule
// ids or unknown severities are rejected outright rather than ignored, so a
// typo cannot silently disable nothing.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading override configuration: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing override configuration %s: %w", path, err)
	}
	if f.Rules == nil {
		f.Rules = map[string]RuleOverride{}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every override against the rule catalog.
func (f *File) Validate() error {
	known := scanner.KnownRuleIDs()
	for id, ov := range f.Rules {
		if !known[id] {
			return fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
		if ov.Severity != "" {
			if _, err := scanner.ParseSeverity(ov.Severity); err != nil {
				return fmt.Errorf("%w: rule %q: %q", ErrInvalidSeverity, id, ov.Severity)
			}
		}
	}
	return nil
}

// Enabled reports whether the rule with the given id should run.
func (f *File) Enabled(id string) bool {
	ov, ok := f.Rules[id]
	if !ok || ov.Enabled == nil {
		return true
	}
	return *ov.Enabled
}

// EngineOptions converts severity overrides into engine options.
func (f *File) EngineOptions() []scanner.EngineOption {
	var opts []scanner.EngineOption
	for id, ov := range f.Rules {
		if ov.Severity == "" {
			continue
		}
		sev, err := scanner.ParseSeverity(ov.Severity)
		if err != nil {
			continue // Validate already rejected these
		}
		opts = append(opts, scanner.WithSeverity(id, sev))
	}
	return opts
}
