package codegen

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/source"
)

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	opts = append([]Option{
		WithFs(fs),
		WithLogger(zaptest.NewLogger(t).Sugar()),
		WithConfig(NewConfig(func(c *Config) { c.OutputDir = "out" })),
	}, opts...)
	return New(opts...), fs
}

func constFn(out Output) ProviderFunc {
	return func(context.Context, *Context, Overrides) (Output, error) {
		return out, nil
	}
}

// recordingProvider remembers what Init received.
type recordingProvider struct {
	prefix    string
	inits     int
	input     Output
	overrides Overrides
	initErr   error
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Init(pc *Context, overrides Overrides) error {
	p.inits++
	p.input = pc.Input
	p.overrides = overrides
	return p.initErr
}

func (p *recordingProvider) Generate(context.Context) (Output, error) {
	return Output{"seen": []any{p.prefix}}, nil
}

func TestGenerateWritesFiles(t *testing.T) {
	g, fs := newTestGenerator(t)
	g = g.UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
		if err := pc.Output.WriteFile("a.ts", []byte("X")); err != nil {
			return nil, err
		}
		return Output{"files": map[string]any{"a.ts": map[string]any{"content": "X"}}}, nil
	}, nil)

	out, err := g.Generate(context.Background(), &api.Data{})
	require.NoError(t, err)

	assert.Equal(t, Output{"files": map[string]any{"a.ts": map[string]any{"content": "X"}}}, out)
	content, err := afero.ReadFile(fs, "out/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "X", string(content))
}

func TestGenerateMergesInOrder(t *testing.T) {
	g, _ := newTestGenerator(t)
	g = g.
		UseFn(constFn(Output{"counts": []any{1}, "name": "a"}), nil).
		UseFn(constFn(Output{"counts": []any{2}, "name": "b"}), nil)

	out, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Output{"counts": []any{1, 2}, "name": "b"}, out)
}

func TestGenerateSkipsEmptyResults(t *testing.T) {
	g, _ := newTestGenerator(t)
	g = g.
		UseFn(constFn(Output{"a": 1}), nil).
		UseFn(constFn(nil), nil).
		UseFn(constFn(Output{}), nil)

	out, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Output{"a": 1}, out)
}

func TestGenerateNoProviders(t *testing.T) {
	g, fs := newTestGenerator(t)

	out, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	exists, err := afero.DirExists(fs, "out")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerateOutputDirectory(t *testing.T) {
	tests := []struct {
		name      string
		clear     bool
		wantStale bool
	}{
		{name: "clear", clear: true, wantStale: false},
		{name: "ensure", clear: false, wantStale: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, fs := newTestGenerator(t, WithConfig(Config{OutputDir: "out", ClearOutputDir: tt.clear}))
			require.NoError(t, afero.WriteFile(fs, "out/stale.ts", []byte("old"), 0o644))

			_, err := g.Generate(context.Background(), nil)
			require.NoError(t, err)

			exists, err := afero.Exists(fs, "out/stale.ts")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStale, exists)
		})
	}
}

func TestGenerateFailFast(t *testing.T) {
	calls := 0
	failing := func(context.Context, *Context, Overrides) (Output, error) {
		return nil, errors.Wrap(errors.ErrInvalidSource, "boom")
	}
	counting := func(context.Context, *Context, Overrides) (Output, error) {
		calls++
		return Output{"x": 1}, nil
	}

	g, _ := newTestGenerator(t)
	g = g.
		UseNamedFn("first", counting, nil).
		UseNamedFn("failing", failing, nil).
		UseNamedFn("third", counting, nil)

	out, err := g.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 1, calls)

	var perr *errors.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "failing", perr.Provider)
	assert.Equal(t, 1, perr.Index)
	assert.Equal(t, PhaseGenerate, perr.Phase)
	assert.True(t, errors.Is(err, errors.ErrInvalidSource))
}

func TestGenerateProviderShapes(t *testing.T) {
	overrides := Overrides{"dir": "models"}

	t.Run("instance is initialized on every run", func(t *testing.T) {
		p := &recordingProvider{prefix: "instance"}
		g, _ := newTestGenerator(t)
		g = g.Use(p, overrides)

		for range 2 {
			out, err := g.Generate(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, Output{"seen": []any{"instance"}}, out)
		}
		assert.Equal(t, 2, p.inits)
		assert.Equal(t, overrides, p.overrides)
	})

	t.Run("factory is called once at registration", func(t *testing.T) {
		var built []*recordingProvider
		g, _ := newTestGenerator(t)
		g = g.UseFactory(func() Provider {
			p := &recordingProvider{prefix: "factory"}
			built = append(built, p)
			return p
		}, nil)

		require.Len(t, built, 1)
		assert.Equal(t, "recording", g.Providers()[0].Name)

		_, err := g.Generate(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, built, 2)
		assert.Zero(t, built[0].inits)
		assert.Equal(t, 1, built[1].inits)
	})

	t.Run("factory constructs per run", func(t *testing.T) {
		var built []*recordingProvider
		g, _ := newTestGenerator(t)
		g = g.UseFactory(func() Provider {
			p := &recordingProvider{prefix: "factory"}
			built = append(built, p)
			return p
		}, overrides)
		built = nil

		_, err := g.Generate(context.Background(), nil)
		require.NoError(t, err)
		_, err = g.Generate(context.Background(), nil)
		require.NoError(t, err)

		require.Len(t, built, 2)
		assert.NotSame(t, built[0], built[1])
		assert.Equal(t, 1, built[0].inits)
		assert.Equal(t, overrides, built[1].overrides)
	})

	t.Run("function receives overrides", func(t *testing.T) {
		var got Overrides
		g, _ := newTestGenerator(t)
		g = g.UseFn(func(_ context.Context, _ *Context, o Overrides) (Output, error) {
			got = o
			return nil, nil
		}, overrides)

		_, err := g.Generate(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, overrides, got)
	})

	t.Run("init failure is reported as init phase", func(t *testing.T) {
		p := &recordingProvider{initErr: errors.New("bad config")}
		g, _ := newTestGenerator(t)
		g = g.Use(p, nil)

		_, err := g.Generate(context.Background(), nil)
		var perr *errors.ProviderError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, PhaseInit, perr.Phase)
		assert.Equal(t, "recording", perr.Provider)
	})
}

func TestGenerateInputSnapshot(t *testing.T) {
	p := &recordingProvider{prefix: "second"}
	g, _ := newTestGenerator(t)
	g = g.
		UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
			assert.Empty(t, pc.Input)
			return Output{"seen": []any{"first"}}, nil
		}, nil).
		UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
			pc.Input["seen"] = "tampered"
			pc.State["k"] = "v"
			return nil, nil
		}, nil).
		Use(p, nil)

	out, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Output{"seen": []any{"first"}}, p.input)
	assert.Equal(t, Output{"seen": []any{"first", "second"}}, out)
}

func TestGenerateSharesDeclarations(t *testing.T) {
	g, fs := newTestGenerator(t)
	g = g.
		UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
			return nil, pc.Declarations.Register("schema/pet", "pet.txt")
		}, nil).
		UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
			set := pc.NewFileSet("  ")
			set.NewFile("uses.txt", nil).Append("uses ", source.CreateReference("Pet", "schema/pet"))
			files, err := set.Finalize()
			if err != nil {
				return nil, err
			}
			return nil, pc.WriteFiles(files)
		}, nil)

	_, err := g.Generate(context.Background(), nil)
	require.NoError(t, err)
	content, err := afero.ReadFile(fs, "out/uses.txt")
	require.NoError(t, err)
	assert.Equal(t, "uses Pet", string(content))
}

func TestUseReturnsCopy(t *testing.T) {
	base, _ := newTestGenerator(t)
	a := base.UseNamedFn("a", constFn(Output{"a": 1}), nil)
	b := a.UseNamedFn("b", constFn(Output{"b": 1}), nil)
	c := a.UseNamedFn("c", constFn(Output{"c": 1}), nil)

	assert.Empty(t, base.Providers())
	assert.Equal(t, []ProviderInfo{{Name: "a", Kind: KindFunc}}, a.Providers())
	assert.Equal(t, []ProviderInfo{{Name: "a", Kind: KindFunc}, {Name: "b", Kind: KindFunc}}, b.Providers())
	assert.Equal(t, []ProviderInfo{{Name: "a", Kind: KindFunc}, {Name: "c", Kind: KindFunc}}, c.Providers())
}

type stubParser struct {
	data    *api.Data
	err     error
	sources []string
}

func (p *stubParser) ParseApisAndTransform(_ context.Context, sources ...string) (*api.Data, error) {
	p.sources = sources
	return p.data, p.err
}

func TestParseAndGenerate(t *testing.T) {
	parser := &stubParser{data: &api.Data{Title: "Petstore"}}
	g, _ := newTestGenerator(t, WithParser(parser))
	g = g.UseFn(func(_ context.Context, pc *Context, _ Overrides) (Output, error) {
		return Output{"title": pc.Data.Title}, nil
	}, nil)

	out, err := g.ParseAndGenerate(context.Background(), "a.yaml", "b.yaml")
	require.NoError(t, err)
	assert.Equal(t, Output{"title": "Petstore"}, out)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, parser.sources)

	parser.err = errors.Wrap(errors.ErrInvalidSource, "missing")
	_, err = g.ParseAndGenerate(context.Background(), "x.yaml")
	assert.True(t, errors.Is(err, errors.ErrInvalidSource))

	_, err = New().ParseAndGenerate(context.Background())
	assert.Error(t, err)
}

func TestGenerateCancelled(t *testing.T) {
	g, _ := newTestGenerator(t)
	g = g.UseFn(constFn(Output{"a": 1}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProviderKindString(t *testing.T) {
	assert.Equal(t, "Factory", KindFactory.String())
	assert.Equal(t, "Func", KindFunc.String())
	assert.Equal(t, "ProviderKind(7)", ProviderKind(7).String())
}
