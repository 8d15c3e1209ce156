package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/apigen/config"
	"github.com/teranos/apigen/display"
	"github.com/teranos/apigen/errors"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, validate and create apigen.toml",
		Long: `Display and manage the apigen project configuration.

Examples:
  apigen config show                    # effective configuration as TOML
  apigen config show --format yaml
  apigen config validate
  apigen config init api/petstore.yaml  # write apigen.toml listing that source`,
	}
	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigValidateCmd(root))
	cmd.AddCommand(newConfigInitCmd(root))
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if display.ShouldOutputJSON(cmd) {
				format = "json"
			}

			w := cmd.OutOrStdout()
			source := root.configFile()
			if source == "" {
				source = "defaults"
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to JSON")
				}
				fmt.Fprintln(w, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to YAML")
				}
				fmt.Fprintf(w, "# apigen configuration (%s)\n%s", source, data)
			case "toml":
				data, err := toml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to TOML")
				}
				fmt.Fprintf(w, "# apigen configuration (%s)\n%s", source, data)
			default:
				return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func newConfigValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return errors.Wrap(err, "failed to load config")
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}

func newConfigInitCmd(root *rootOptions) *cobra.Command {
	var (
		force   bool
		targets []string
	)
	cmd := &cobra.Command{
		Use:   "init [sources...]",
		Short: "Write a starter apigen.toml",
		Long: `Write apigen.toml in the current directory with the default settings,
the given sources and targets. An existing file is kept as a backup
(apigen.toml.back1) when --force replaces it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if path == "" {
				path = config.FileName
			}
			exists, err := afero.Exists(root.fs, path)
			if err != nil {
				return err
			}
			if exists && !force {
				return errors.WithHint(errors.Newf("%s already exists", path), "pass --force to replace it")
			}

			cfg := config.Default()
			cfg.Sources = args
			if len(targets) > 0 {
				cfg.Targets = targets
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			for _, src := range args {
				if _, err := os.Stat(src); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: source %s does not exist yet\n", src)
				}
			}

			if err := config.Save(root.fs, path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	cmd.Flags().StringSliceVarP(&targets, "targets", "t", nil, "Targets to list (default: typescript-models)")
	return cmd
}
