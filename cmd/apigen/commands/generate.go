package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/apigen/api/openapi"
	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/config"
	"github.com/teranos/apigen/display"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
	"github.com/teranos/apigen/providers"
	"github.com/teranos/apigen/version"
)

type generateOptions struct {
	*rootOptions
	outputDir string
	clear     bool
	noClear   bool
	targets   []string
	manifest  string
	watch     bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "generate [sources...]",
		Short: "Generate code from OpenAPI sources",
		Long: `Parse the given OpenAPI sources (or the sources listed in apigen.toml)
and run every target in order.

The output directory is cleared before the run unless --no-clear is given
or generator.clear_output_dir is false.

Examples:
  apigen generate api/petstore.yaml
  apigen generate -t go-models,markdown-docs -o internal/api
  apigen generate --manifest generated/manifest.yaml
  apigen generate https://example.com/openapi.yaml   # needs parser.allow_remote`,
		RunE: opts.run,
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default: generator.output_dir)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Clear the output directory before generating")
	cmd.Flags().BoolVar(&opts.noClear, "no-clear", false, "Keep existing files in the output directory")
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "Targets to run, in order (see 'apigen targets')")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Write a YAML manifest of the result to this path")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when a local source or the config file changes")
	cmd.MarkFlagsMutuallyExclusive("clear", "no-clear")

	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.effectiveConfig(args)
	if err != nil {
		return err
	}

	if _, err := o.generateOnce(cmd, cfg); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	return o.watchLoop(cmd, cfg, args)
}

// effectiveConfig applies flags and arguments over the loaded config and
// validates the result.
func (o *generateOptions) effectiveConfig(args []string) (*config.Config, error) {
	loaded, err := o.config()
	if err != nil {
		return nil, err
	}
	cfg := *loaded
	if len(args) > 0 {
		cfg.Sources = args
	}
	if len(o.targets) > 0 {
		cfg.Targets = o.targets
	}
	if o.outputDir != "" {
		cfg.Generator.OutputDir = o.outputDir
	}
	switch {
	case o.clear:
		cfg.Generator.ClearOutputDir = true
	case o.noClear:
		cfg.Generator.ClearOutputDir = false
	}

	if len(cfg.Sources) == 0 {
		return nil, errors.WithHint(errors.NewInvalidSourceError("no sources"),
			"pass OpenAPI files as arguments or list them under sources in apigen.toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// reload drops the cached configuration and reads it again.
func (o *generateOptions) reload(args []string) (*config.Config, error) {
	o.cfg = nil
	config.Reset()
	return o.effectiveConfig(args)
}

func (o *generateOptions) generateOnce(cmd *cobra.Command, cfg *config.Config) (codegen.Output, error) {
	start := time.Now()
	result, err := runPipeline(cmd.Context(), cfg, o.fs, o.verbose)
	if err != nil {
		return nil, err
	}

	if o.manifest != "" {
		if err := writeManifest(o.fs, o.manifest, cfg, result); err != nil {
			return nil, err
		}
	}

	if err := o.report(cmd, cfg, result, time.Since(start)); err != nil {
		return nil, err
	}
	return result, nil
}

func (o *generateOptions) report(cmd *cobra.Command, cfg *config.Config, result codegen.Output, elapsed time.Duration) error {
	w := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(w, result)
	}
	summary, err := display.RenderSummary(result, cfg.Generator.OutputDir, elapsed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, summary)
	return err
}

// runPipeline builds the generator for cfg and runs it on the configured
// sources.
func runPipeline(ctx context.Context, cfg *config.Config, fs afero.Fs, verbosity int) (codegen.Output, error) {
	g, err := newGenerator(cfg, fs, verbosity)
	if err != nil {
		return nil, err
	}
	return g.ParseAndGenerate(ctx, cfg.Sources...)
}

func newGenerator(cfg *config.Config, fs afero.Fs, verbosity int) (*codegen.Generator, error) {
	parser := openapi.NewParser(
		openapi.WithRemote(cfg.Parser.AllowRemote),
		openapi.WithPrivateHosts(cfg.Parser.AllowPrivateHosts),
		openapi.WithVersionConstraint(cfg.Parser.OpenAPIVersions),
		openapi.WithFetchTimeout(time.Duration(cfg.Parser.FetchTimeoutSec)*time.Second),
	)
	g := codegen.New(
		codegen.WithConfig(cfg.Codegen()),
		codegen.WithParser(parser),
		codegen.WithFs(fs),
		codegen.WithStrictDeclarations(cfg.Parser.StrictDeclarations),
		codegen.WithVerbosity(verbosity),
	)
	return providers.Pipeline(g, cfg.Targets, cfg.ProviderOverrides())
}

// Manifest is the YAML record --manifest writes.
type Manifest struct {
	Generator string            `yaml:"generator"`
	OutputDir string            `yaml:"output_dir"`
	Sources   []string          `yaml:"sources"`
	Targets   []string          `yaml:"targets"`
	Files     []display.FileRow `yaml:"files"`
	// Sections holds every result key except files.
	Sections map[string]any `yaml:"sections,omitempty"`
}

func newManifest(cfg *config.Config, result codegen.Output) Manifest {
	m := Manifest{
		Generator: version.Get().String(),
		OutputDir: cfg.Generator.OutputDir,
		Sources:   cfg.Sources,
		Targets:   cfg.Targets,
		Files:     display.Files(result),
	}
	for key, v := range result {
		if key == "files" {
			continue
		}
		if m.Sections == nil {
			m.Sections = make(map[string]any)
		}
		m.Sections[key] = v
	}
	return m
}

func writeManifest(fs afero.Fs, path string, cfg *config.Config, result codegen.Output) error {
	data, err := yaml.Marshal(newManifest(cfg, result))
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write manifest %s", path)
	}
	logger.Debugw("Wrote manifest", logger.FieldPath, path)
	return nil
}

// watchLoop regenerates whenever a local source or the config file
// changes, until the command context is cancelled. The configuration is
// read again before each run. Failed runs are reported and the loop keeps
// going.
func (o *generateOptions) watchLoop(cmd *cobra.Command, cfg *config.Config, args []string) error {
	var paths []string
	for _, src := range cfg.Sources {
		if _, err := os.Stat(src); err == nil {
			paths = append(paths, src)
		}
	}
	if f := o.configFile(); f != "" {
		paths = append(paths, f)
	}
	if len(paths) == 0 {
		return errors.WithHint(errors.New("no local files to watch"), "--watch only follows local sources")
	}

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	sw, err := config.NewSourceWatcher(paths, debounce)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	sw.OnChange(func(changed []string) error {
		fmt.Fprintf(w, "Changed: %v\n", changed)
		next, err := o.reload(args)
		if err == nil {
			_, err = o.generateOnce(cmd, next)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	})
	sw.Start()

	fmt.Fprintf(w, "Watching %d files, press Ctrl+C to stop\n", len(paths))
	<-cmd.Context().Done()
	return sw.Stop()
}
