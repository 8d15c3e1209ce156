package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/apigen/api/openapi"
	"github.com/teranos/apigen/codegen"
)

// DefaultTargets runs when neither the file nor the command line names any.
var DefaultTargets = []string{"typescript-models"}

// DefaultDebounceMS is the quiet period generate --watch waits for.
const DefaultDebounceMS = 300

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	defaults := codegen.DefaultConfig()
	v.SetDefault("generator.output_dir", defaults.OutputDir)
	v.SetDefault("generator.clear_output_dir", defaults.ClearOutputDir)

	v.SetDefault("sources", []string{})
	v.SetDefault("targets", DefaultTargets)

	v.SetDefault("parser.allow_remote", false)
	v.SetDefault("parser.allow_private_hosts", false)
	v.SetDefault("parser.openapi_versions", openapi.DefaultVersionConstraint)
	v.SetDefault("parser.fetch_timeout_sec", int(openapi.DefaultFetchTimeout.Seconds()))
	v.SetDefault("parser.strict_declarations", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// BindEnvVars binds the settings most often overridden in CI.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("generator.output_dir", EnvPrefix+"_OUTPUT_DIR")
	v.BindEnv("parser.allow_remote", EnvPrefix+"_ALLOW_REMOTE")
}

// Default returns the configuration SetDefaults describes.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generator: {OutputDir: %s, Clear: %t}, Sources: %d, Targets: %v}",
		c.Generator.OutputDir, c.Generator.ClearOutputDir, len(c.Sources), c.Targets)
}
