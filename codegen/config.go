package codegen

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/errors"
)

// DefaultOutputDir is where generated files go unless configured.
const DefaultOutputDir = "generated"

// Config is the generator configuration. It is fixed for the duration of
// one Generate call.
type Config struct {
	OutputDir      string `mapstructure:"output_dir" toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	ClearOutputDir bool   `mapstructure:"clear_output_dir" toml:"clear_output_dir" yaml:"clear_output_dir" json:"clear_output_dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:      DefaultOutputDir,
		ClearOutputDir: true,
	}
}

// NewConfig returns the defaults with the overrides applied in order.
func NewConfig(overrides ...func(*Config)) Config {
	cfg := DefaultConfig()
	for _, o := range overrides {
		o(&cfg)
	}
	return cfg
}

// Overrides is the caller-supplied configuration of one provider. The
// generator forwards it untouched; each provider decodes it over its own
// defaults with DecodeConfig.
type Overrides = map[string]any

// DecodeConfig decodes overrides on top of defaults. Keys the provider
// does not know are errors. A casing.Casing may be given as a bare style
// string.
func DecodeConfig[T any](defaults T, overrides Overrides) (T, error) {
	out := defaults
	if len(overrides) == 0 {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(casingHook),
	})
	if err != nil {
		return defaults, errors.Wrap(err, "failed to create config decoder")
	}
	if err := dec.Decode(overrides); err != nil {
		return defaults, errors.WithHint(errors.Wrap(err, "invalid provider configuration"),
			"check the [providers.<name>] section of apigen.toml")
	}
	return out, nil
}

var casingType = reflect.TypeOf(casing.Casing{})

func casingHook(from, to reflect.Type, data any) (any, error) {
	if to != casingType || from.Kind() != reflect.String {
		return data, nil
	}
	style := casing.Style(data.(string))
	if err := style.Validate(); err != nil {
		return nil, err
	}
	return casing.Casing{Style: style}, nil
}
