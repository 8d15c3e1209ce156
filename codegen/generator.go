// Package codegen runs providers over a parsed API description and merges
// their results.
//
// A Generator holds an ordered list of providers and a Config. Generate
// prepares the output directory, then runs every provider in registration
// order. Each provider sees the merged output of the ones before it, and
// its own result is deep-merged into the accumulator. The first failure
// stops the run.
package codegen

import (
	"context"
	"slices"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
	"github.com/teranos/apigen/output"
	"github.com/teranos/apigen/source"
)

// Parser turns API sources into the normalized model.
type Parser interface {
	ParseApisAndTransform(ctx context.Context, sources ...string) (*api.Data, error)
}

// Generator is immutable: Use, UseFactory and UseFn return a new
// Generator and leave the receiver unchanged.
type Generator struct {
	config  Config
	steps   []step
	parser  Parser
	fs      afero.Fs
	strict  bool
	logger  *zap.SugaredLogger
	verbose int
}

// Option configures a Generator.
type Option func(*Generator)

// WithConfig replaces the configuration.
func WithConfig(cfg Config) Option {
	return func(g *Generator) { g.config = cfg }
}

// WithParser sets the parser used by ParseAndGenerate.
func WithParser(p Parser) Option {
	return func(g *Generator) { g.parser = p }
}

// WithFs sets the file system the output directory lives on.
func WithFs(fs afero.Fs) Option {
	return func(g *Generator) { g.fs = fs }
}

// WithStrictDeclarations makes a locator declared twice in one run an error.
func WithStrictDeclarations(strict bool) Option {
	return func(g *Generator) { g.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithVerbosity sets the verbosity used to decide on fragment dumps.
func WithVerbosity(v int) Option {
	return func(g *Generator) { g.verbose = v }
}

// New returns a Generator with DefaultConfig and no providers.
func New(opts ...Option) *Generator {
	g := &Generator{
		config:  DefaultConfig(),
		fs:      afero.NewOsFs(),
		logger:  logger.ComponentLogger("codegen"),
		verbose: logger.Verbosity,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() Config { return g.config }

// Providers lists the registered providers in run order.
func (g *Generator) Providers() []ProviderInfo {
	infos := make([]ProviderInfo, len(g.steps))
	for i, s := range g.steps {
		infos[i] = s.info()
	}
	return infos
}

// Use registers a provider instance. The instance is initialized again on
// every run.
func (g *Generator) Use(p Provider, overrides Overrides) *Generator {
	return g.with(step{kind: KindInstance, name: providerName(p), instance: p, overrides: overrides})
}

// UseFactory registers a provider that is constructed fresh for every run.
// The factory is also called once at registration to read the provider
// name. That instance is never initialized or run, so a factory must not
// have side effects beyond building the provider.
func (g *Generator) UseFactory(f ProviderFactory, overrides Overrides) *Generator {
	name := funcName(f)
	if p := f(); p != nil {
		name = providerName(p)
	}
	return g.with(step{kind: KindFactory, name: name, factory: f, overrides: overrides})
}

// UseFn registers a function provider.
func (g *Generator) UseFn(fn ProviderFunc, overrides Overrides) *Generator {
	return g.with(step{kind: KindFunc, name: funcName(fn), fn: fn, overrides: overrides})
}

// UseNamedFn registers a function provider under an explicit name.
func (g *Generator) UseNamedFn(name string, fn ProviderFunc, overrides Overrides) *Generator {
	return g.with(step{kind: KindFunc, name: name, fn: fn, overrides: overrides})
}

func (g *Generator) with(s step) *Generator {
	next := *g
	next.steps = append(slices.Clip(g.steps), s)
	return &next
}

// Generate runs all providers against data and returns the merged output.
// When a provider fails the run stops and the error is a
// *errors.ProviderError wrapping the provider's own error.
func (g *Generator) Generate(ctx context.Context, data *api.Data) (Output, error) {
	if data == nil {
		data = &api.Data{}
	}
	runID := uuid.New().String()
	log := g.logger.With(logger.FieldRunID, runID)
	start := time.Now()

	dir := output.NewDir(g.fs, g.config.OutputDir)
	if err := dir.Prepare(g.config.ClearOutputDir); err != nil {
		return nil, errors.Wrap(err, "failed to prepare output directory")
	}
	log.Infow("Generation started",
		logger.FieldOutputDir, dir.Root(),
		"clear", g.config.ClearOutputDir,
		logger.FieldCount, len(g.steps))

	decls := source.NewDeclarations(
		source.WithStrictDeclarations(g.strict),
		source.WithDeclarationsLogger(log.Named("declarations")),
	)

	result := Output{}
	for i, s := range g.steps {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "generation cancelled")
		}
		plog := log.With(logger.FieldProvider, s.name, logger.FieldIndex, i, logger.FieldKind, s.kind.String())
		pc := &Context{
			RunID:        runID,
			Data:         data,
			Input:        Merge(nil, result),
			Config:       g.config,
			State:        map[string]any{},
			Declarations: decls,
			Output:       dir,
			Logger:       plog,
		}

		providerStart := time.Now()
		fragment, phase, err := s.invoke(ctx, pc)
		if err != nil {
			plog.Errorw("Provider failed", logger.FieldPhase, phase, logger.FieldError, err)
			return nil, &errors.ProviderError{Provider: s.name, Index: i, Phase: phase, Err: err}
		}
		if len(fragment) > 0 {
			result = Merge(result, fragment)
		}
		plog.Debugw("Provider finished",
			logger.FieldDurationMS, time.Since(providerStart).Milliseconds(),
			logger.FieldCount, len(fragment))
		if logger.DumpFragments(g.verbose) {
			plog.Debugw("Provider output", "fragment", spew.Sdump(fragment))
		}
	}

	log.Infow("Generation finished",
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		"declarations", decls.Len())
	return result, nil
}

// ParseAndGenerate parses sources with the configured parser and runs
// Generate on the result.
func (g *Generator) ParseAndGenerate(ctx context.Context, sources ...string) (Output, error) {
	if g.parser == nil {
		return nil, errors.AssertionFailedf("generator has no parser configured")
	}
	data, err := g.parser.ParseApisAndTransform(ctx, sources...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, data)
}
