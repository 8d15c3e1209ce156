// Package commands implements the apigen command line.
package commands

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/apigen/config"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

// rootOptions holds the persistent flags and what every command shares.
type rootOptions struct {
	configPath string
	verbose    int
	jsonLog    bool
	fs         afero.Fs

	cfg *config.Config
}

// NewRootCmd builds the apigen command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:   "apigen",
		Short: "Generate models, clients and docs from OpenAPI descriptions",
		Long: `apigen - Generate source code from OpenAPI descriptions.

Sources are parsed into one API description, then every target in the
configured order writes its files and adds its section to the result.
Later targets see what earlier ones produced (typescript-clients imports
the models typescript-models declared).

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (APIGEN_* prefix)
3. Project config (apigen.toml, searched upwards from the working directory)
4. Default values

Examples:
  apigen generate api/petstore.yaml          # TypeScript models into ./generated
  apigen generate -t typescript-models,typescript-clients -o web/src/api
  apigen generate --watch                    # regenerate when sources change
  apigen check                               # fail if generated files are stale
  apigen targets                             # list available targets`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogger(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: apigen.toml searched upwards)")
	root.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "Increase output verbosity (-v progress, -vv file writes, -vvv output dumps)")
	root.PersistentFlags().Bool("json", false, "Print results as JSON")
	root.PersistentFlags().BoolVar(&opts.jsonLog, "json-log", false, "Log as JSON instead of console lines")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newTargetsCmd())
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

// initLogger sets up the global logger. Flags win over the [log] section.
// A config that fails to load is reported by the command that needs it.
func (o *rootOptions) initLogger(cmd *cobra.Command) error {
	verbosity, jsonLog := o.verbose, o.jsonLog
	if cfg, err := o.config(); err == nil {
		if !cmd.Flags().Changed("verbose") {
			verbosity = cfg.Log.Verbosity
		}
		if !cmd.Flags().Changed("json-log") {
			jsonLog = cfg.Log.JSON
		}
	}
	if err := logger.Initialize(os.Stderr, jsonLog, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	o.verbose = verbosity
	return nil
}

// config loads the configuration once: from --config when given,
// otherwise from the project file and environment.
func (o *rootOptions) config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	o.cfg = cfg
	return cfg, nil
}

// configFile is the file the configuration came from, "" for defaults.
func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.UsedFile()
}
