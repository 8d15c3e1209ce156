// Package config loads the apigen project configuration (apigen.toml) with
// viper, validates it, writes it back with go-toml and watches the files a
// generation run depends on.
package config

import (
	"github.com/teranos/apigen/codegen"
)

// FileName is the project configuration file searched for from the working
// directory upwards.
const FileName = "apigen.toml"

// EnvPrefix prefixes environment overrides, e.g. APIGEN_GENERATOR_OUTPUT_DIR.
const EnvPrefix = "APIGEN"

// Config is the apigen project configuration.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator" yaml:"generator" json:"generator"`
	// Sources are OpenAPI files or URLs, parsed in order.
	Sources []string `mapstructure:"sources" toml:"sources" yaml:"sources" json:"sources"`
	// Targets are provider names, run in order.
	Targets []string `mapstructure:"targets" toml:"targets" yaml:"targets" json:"targets"`
	// Providers holds per-target overrides keyed by target name. They are
	// forwarded to the provider untouched.
	Providers map[string]map[string]any `mapstructure:"providers" toml:"providers,omitempty" yaml:"providers,omitempty" json:"providers,omitempty"`
	Parser    ParserConfig              `mapstructure:"parser" toml:"parser" yaml:"parser" json:"parser"`
	Log       LogConfig                 `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch     WatchConfig               `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// GeneratorConfig mirrors codegen.Config.
type GeneratorConfig struct {
	OutputDir      string `mapstructure:"output_dir" toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	ClearOutputDir bool   `mapstructure:"clear_output_dir" toml:"clear_output_dir" yaml:"clear_output_dir" json:"clear_output_dir"`
}

// ParserConfig configures how sources are loaded.
type ParserConfig struct {
	// AllowRemote fetches http(s), git and s3 sources via go-getter.
	AllowRemote bool `mapstructure:"allow_remote" toml:"allow_remote" yaml:"allow_remote" json:"allow_remote"`
	// AllowPrivateHosts permits http(s) sources on loopback and private networks.
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts" toml:"allow_private_hosts" yaml:"allow_private_hosts" json:"allow_private_hosts"`
	// OpenAPIVersions is a semver constraint on the document's openapi field.
	OpenAPIVersions string `mapstructure:"openapi_versions" toml:"openapi_versions" yaml:"openapi_versions" json:"openapi_versions"`
	// FetchTimeoutSec bounds each http(s) download, 0 = no limit.
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" toml:"fetch_timeout_sec" yaml:"fetch_timeout_sec" json:"fetch_timeout_sec"`
	// StrictDeclarations fails on duplicate declarations instead of keeping the last.
	StrictDeclarations bool `mapstructure:"strict_declarations" toml:"strict_declarations" yaml:"strict_declarations" json:"strict_declarations"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"` // 0-3, same as -v flags
}

// WatchConfig configures generate --watch.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// Codegen returns the generator configuration.
func (c *Config) Codegen() codegen.Config {
	return codegen.Config{
		OutputDir:      c.Generator.OutputDir,
		ClearOutputDir: c.Generator.ClearOutputDir,
	}
}

// ProviderOverrides converts the providers section into the form
// providers.Pipeline expects.
func (c *Config) ProviderOverrides() map[string]codegen.Overrides {
	out := make(map[string]codegen.Overrides, len(c.Providers))
	for name, o := range c.Providers {
		out[name] = o
	}
	return out
}
