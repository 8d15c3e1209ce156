package config

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/providers"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Generator.OutputDir == "" {
		return errors.WithHint(errors.New("generator.output_dir cannot be empty"),
			"omit it to use \"generated\"")
	}

	if len(c.Targets) == 0 {
		return errors.WithHintf(errors.New("targets cannot be empty"),
			"available targets: %v", providers.Names())
	}

	seen := make(map[string]bool, len(c.Targets))
	for _, name := range c.Targets {
		if seen[name] {
			return errors.Newf("target %s is listed twice", name)
		}
		seen[name] = true
		if _, err := providers.Lookup(name); err != nil {
			return errors.WithHintf(err, "available targets: %v", providers.Names())
		}
	}

	// provider sections for targets that never run are most likely typos
	for name := range c.Providers {
		if _, err := providers.Lookup(name); err != nil {
			return errors.Wrapf(err, "providers.%s", name)
		}
	}

	if c.Parser.OpenAPIVersions != "" {
		if _, err := semver.NewConstraint(c.Parser.OpenAPIVersions); err != nil {
			return errors.Wrapf(err, "parser.openapi_versions %q is not a valid constraint", c.Parser.OpenAPIVersions)
		}
	}

	if c.Parser.FetchTimeoutSec < 0 {
		return errors.Newf("parser.fetch_timeout_sec must be >= 0, got %d", c.Parser.FetchTimeoutSec)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// 0 = regenerate on every event
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
