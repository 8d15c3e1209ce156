package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/apigen/errors"
)

// importDialect imports every declaration living in another file.
type importDialect struct{}

func (importDialect) Resolve(from string, decl Declaration, name string) (string, *Import) {
	if decl.Path == from {
		return name, nil
	}
	return name, &Import{Module: RelativePath(from, decl.Path), Name: name}
}

func (importDialect) WriteImports(b *Builder, imports []Import) {
	modules, byModule := GroupImports(imports)
	for _, m := range modules {
		b.AppendLine("import { ", Each(byModule[m], ", ", func(i Import) any { return i.Name }), " } from '", m, "';")
	}
	b.AppendLine()
}

func testDeclarations(t *testing.T, opts ...DeclarationsOption) *Declarations {
	t.Helper()
	opts = append([]DeclarationsOption{WithDeclarationsLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewDeclarations(opts...)
}

func TestReferenceResolvedAfterLateDeclaration(t *testing.T) {
	decls := testDeclarations(t)
	b := New(Options{Path: "a.ts", Declarations: decls})

	b.Append("type X = ", CreateReference("Pet", "schema/pet"), ";")
	require.NoError(t, decls.Register("schema/pet", "models/pet.ts"))

	out, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "type X = Pet;", out)
}

func TestFinalizeUnresolved(t *testing.T) {
	tests := []struct {
		name     string
		declared []string
		wantErr  bool
		missing  []string
	}{
		{name: "all declared", declared: []string{"schema/pet", "schema/owner"}},
		{name: "one missing", declared: []string{"schema/pet"}, wantErr: true, missing: []string{"schema/owner"}},
		{name: "none declared", wantErr: true, missing: []string{"schema/owner", "schema/pet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decls := testDeclarations(t)
			for _, loc := range tt.declared {
				require.NoError(t, decls.Register(loc, "models.ts"))
			}

			b := New(Options{Path: "models.ts", Declarations: decls})
			b.Append(CreateReference("Pet", "schema/pet"), " ", CreateReference("Owner", "schema/owner"), " ", CreateReference("Pet", "schema/pet"))

			_, err := b.Finalize()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ure *errors.UnresolvedReferenceError
			require.True(t, errors.As(err, &ure))
			assert.Equal(t, tt.missing, ure.Locators())
		})
	}
}

func TestFinalizeWritesImports(t *testing.T) {
	decls := testDeclarations(t)
	require.NoError(t, decls.Register("schema/pet", "models/pet.ts"))
	require.NoError(t, decls.Register("schema/owner", "models/owner.ts"))
	require.NoError(t, decls.Register("client/pets", "clients/pets.ts"))

	b := New(Options{Path: "clients/pets.ts", Dialect: importDialect{}, Declarations: decls})
	pet := ReferenceFactory("Pet", "schema/pet")
	b.AppendLine("// generated")
	b.ImportsHere()
	b.AppendLine("export class ", CreateReference("PetsClient", "client/pets"), " {")
	b.Indent(func(b *Builder) {
		b.AppendLine("get(): ", pet(), " | ", CreateReference("Owner", "schema/owner"), ";")
		b.AppendLine("list(): ", pet(), "[];")
	})
	b.AppendLine("}")

	out, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"// generated",
		"import { Owner } from '../models/owner';",
		"import { Pet } from '../models/pet';",
		"",
		"export class PetsClient {",
		"  get(): Pet | Owner;",
		"  list(): Pet[];",
		"}",
		"",
	}, "\n"), out)
}

func TestFinalizeImportsWithoutAnchorGoFirst(t *testing.T) {
	decls := testDeclarations(t)
	require.NoError(t, decls.Register("schema/pet", "pet.ts"))

	b := New(Options{Path: "index.ts", Dialect: importDialect{}, Declarations: decls})
	b.AppendLine("export type P = ", CreateReference("Pet", "schema/pet"), ";")

	out, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "import { Pet } from './pet';\n\nexport type P = Pet;\n", out)
}

func TestReferenceNaming(t *testing.T) {
	decls := testDeclarations(t)
	require.NoError(t, decls.Register("schema/pet", "pet.ts", WithName("PetModel")))
	require.NoError(t, decls.Register("schema/owner", "owner.ts"))

	b := New(Options{Declarations: decls})
	b.Append(
		CreateReference("Pet", "schema/pet"), " ",
		CreateReference("owner", "schema/owner", WithTransform(strings.ToUpper)),
	)
	out, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "PetModel OWNER", out)
}

func TestDuplicateDeclarations(t *testing.T) {
	t.Run("last registration wins", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		decls := NewDeclarations(WithDeclarationsLogger(zap.New(core).Sugar()))

		require.NoError(t, decls.Register("schema/pet", "a.ts"))
		require.NoError(t, decls.Register("schema/pet", "b.ts"))

		decl, ok := decls.Lookup("schema/pet")
		require.True(t, ok)
		assert.Equal(t, "b.ts", decl.Path)
		assert.Equal(t, 1, decls.Len())
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "a.ts", logs.All()[0].ContextMap()["previous"])
	})

	t.Run("strict mode rejects", func(t *testing.T) {
		decls := testDeclarations(t, WithStrictDeclarations(true))
		require.NoError(t, decls.Register("schema/pet", "a.ts"))

		err := decls.Register("schema/pet", "b.ts")
		var dup *errors.DuplicateDeclarationError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "a.ts", dup.Previous)

		decl, _ := decls.Lookup("schema/pet")
		assert.Equal(t, "a.ts", decl.Path)
	})
}

func TestNilDeclarations(t *testing.T) {
	var decls *Declarations
	_, ok := decls.Lookup("x")
	assert.False(t, ok)
	assert.Zero(t, decls.Len())
	assert.Nil(t, decls.Locators())
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		from, target, want string
	}{
		{"models/pet.ts", "models/owner.ts", "./owner"},
		{"clients/pets.ts", "models/pet.ts", "../models/pet"},
		{"index.ts", "models/pet.ts", "./models/pet"},
		{"a/b/c.ts", "a/d.ts", "../d"},
		{"a/b/c.ts", "x/y/z.ts", "../../x/y/z"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativePath(tt.from, tt.target))
		})
	}
}

func TestFileSet(t *testing.T) {
	decls := testDeclarations(t)
	fs := NewFileSet(decls, "  ")

	owner := fs.NewFile("models/owner.ts", importDialect{})
	pet := fs.NewFile("models/pet.ts", importDialect{})
	assert.Same(t, pet, fs.NewFile("models/pet.ts", importDialect{}))

	pet.AppendLine("export interface Pet { owner: ", CreateReference("Owner", "schema/owner"), " }")
	owner.AppendLine("export interface Owner { pets: ", CreateReference("Pet", "schema/pet"), "[] }")
	require.NoError(t, fs.Declare("schema/pet", "models/pet.ts"))
	require.NoError(t, fs.Declare("schema/owner", "models/owner.ts"))

	files, err := fs.Finalize()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "models/owner.ts", files[0].Path)
	assert.Equal(t, "import { Pet } from './pet';\n\nexport interface Owner { pets: Pet[] }\n", files[0].Content)
	assert.Equal(t, []string{"models/owner.ts", "models/pet.ts"}, fs.Paths())
}

func TestFileSetAggregatesUnresolved(t *testing.T) {
	fs := NewFileSet(testDeclarations(t), "  ")
	fs.NewFile("a.ts", nil).Append(CreateReference("A", "schema/a"))
	fs.NewFile("b.ts", nil).Append(CreateReference("B", "schema/b"))

	_, err := fs.Finalize()
	var ure *errors.UnresolvedReferenceError
	require.True(t, errors.As(err, &ure))
	assert.Equal(t, []string{"schema/a", "schema/b"}, ure.Locators())
}
