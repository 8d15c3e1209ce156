package output

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name        string
		clear       bool
		wantSurvive bool
	}{
		{name: "clear removes prior content", clear: true, wantSurvive: false},
		{name: "ensure keeps prior content", clear: false, wantSurvive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "out/old/stale.ts", []byte("x"), 0o644))

			d := NewDir(fs, "out")
			require.NoError(t, d.Prepare(tt.clear))

			exists, err := afero.Exists(fs, "out/old/stale.ts")
			require.NoError(t, err)
			assert.Equal(t, tt.wantSurvive, exists)

			isDir, err := afero.DirExists(fs, "out")
			require.NoError(t, err)
			assert.True(t, isDir)
		})
	}
}

func TestPrepareMissingDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, NewDir(fs, "a/b/c").Prepare(false))
	isDir, _ := afero.DirExists(fs, "a/b/c")
	assert.True(t, isDir)
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDir(fs, "out")

	require.NoError(t, d.WriteFile("models/pet.ts", []byte("export interface Pet {}\n")))
	require.NoError(t, d.WriteFile("index.ts", []byte("export * from './models/pet';\n")))

	content, err := d.ReadFile("models/pet.ts")
	require.NoError(t, err)
	assert.Equal(t, "export interface Pet {}\n", string(content))

	files, err := d.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"index.ts", "models/pet.ts"}, files)

	assert.Error(t, d.WriteFile("../escape.ts", nil))
	assert.Error(t, d.WriteFile("/abs.ts", nil))
}

func TestCompareDirectories(t *testing.T) {
	gen := afero.NewMemMapFs()
	existing := afero.NewMemMapFs()

	write := func(fs afero.Fs, path, content string) {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	write(gen, "tmp/same.ts", "// Generated at: 2026-10-01\nexport type A = string;\n")
	write(existing, "out/same.ts", "// Generated at: 2026-09-01\nexport type A = string;\n")
	write(gen, "tmp/changed.ts", "export type B = number;\n")
	write(existing, "out/changed.ts", "export type B = string;\n")
	write(gen, "tmp/new.ts", "export type C = boolean;\n")
	write(existing, "out/removed.ts", "export type D = null;\n")

	result, err := CompareDirectories(gen, existing, "tmp", "out")
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []Difference{
		{Path: "changed.ts", Kind: DiffChanged},
		{Path: "new.ts", Kind: DiffMissing},
		{Path: "removed.ts", Kind: DiffExtra},
	}, result.Differences)

	same, err := CompareDirectories(gen, gen, "tmp", "tmp")
	require.NoError(t, err)
	assert.True(t, same.UpToDate)
}

func TestCompareMissingExistingDirectory(t *testing.T) {
	gen := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(gen, "tmp/a.ts", []byte("a"), 0o644))

	result, err := CompareDirectories(gen, afero.NewMemMapFs(), "tmp", "out")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Path: "a.ts", Kind: DiffMissing}}, result.Differences)
}
