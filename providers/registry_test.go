package providers

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	apitest "github.com/teranos/apigen/internal/testing"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"go-models",
		"kotlin-models",
		"markdown-docs",
		"typescript-clients",
		"typescript-models",
	}, Names())
	assert.Len(t, All(), 5)
}

func TestLookup(t *testing.T) {
	target, err := Lookup("typescript-clients")
	require.NoError(t, err)
	assert.Equal(t, "typescript", target.Language)
	assert.Equal(t, []string{"typescript-models"}, target.Requires)

	_, err = Lookup("cobol-models")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownTarget))
	assert.Contains(t, errors.GetAllHints(err), "run 'apigen targets' to list registered targets")
}

func TestPipeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := codegen.New(
		codegen.WithFs(fs),
		codegen.WithLogger(zaptest.NewLogger(t).Sugar()),
		codegen.WithConfig(codegen.Config{OutputDir: "out", ClearOutputDir: true}),
		codegen.WithStrictDeclarations(true),
	)

	t.Run("requirements must run first", func(t *testing.T) {
		_, err := Pipeline(g, []string{"typescript-clients", "typescript-models"}, nil)
		assert.ErrorContains(t, err, "requires typescript-models")
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := Pipeline(g, []string{"typescript-models", "nope"}, nil)
		assert.True(t, errors.Is(err, errors.ErrUnknownTarget))
	})

	t.Run("all targets", func(t *testing.T) {
		names := []string{"typescript-models", "typescript-clients", "kotlin-models", "go-models", "markdown-docs"}
		pipeline, err := Pipeline(g, names, map[string]codegen.Overrides{
			"kotlin-models": {"package": "org.acme.pets"},
		})
		require.NoError(t, err)
		assert.Empty(t, g.Providers())

		infos := pipeline.Providers()
		require.Len(t, infos, len(names))
		for i, info := range infos {
			assert.Equal(t, names[i], info.Name)
			assert.Equal(t, codegen.KindFactory, info.Kind)
		}

		out, err := pipeline.Generate(context.Background(), apitest.Petstore())
		require.NoError(t, err)

		files := out["files"].(map[string]any)
		byProvider := map[string]int{}
		for _, entry := range files {
			byProvider[entry.(map[string]any)["provider"].(string)]++
		}
		assert.Equal(t, map[string]int{
			"typescript-models":  6,
			"typescript-clients": 2,
			"kotlin-models":      5,
			"go-models":          5,
			"markdown-docs":      3,
		}, byProvider)

		exists, err := afero.Exists(fs, "out/kotlin/org/acme/pets/Pet.kt")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
