// Package golang generates Go structs with JSON tags. Output is gofmt'd by
// the Go dialect.
package golang

import (
	"context"
	"path"
	"strconv"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	gol "github.com/teranos/apigen/lang/golang"
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/providers/internal/emit"
	"github.com/teranos/apigen/source"
)

// ModelsTarget is the registry name of the provider.
const ModelsTarget = "go-models"

// ModelsConfig configures the provider.
type ModelsConfig struct {
	Package    string        `mapstructure:"package"`
	ImportPath string        `mapstructure:"import_path"`
	Dir        string        `mapstructure:"dir"`
	FileName   casing.Casing `mapstructure:"file_name"`
	TypeName   casing.Casing `mapstructure:"type_name"`
}

// DefaultModelsConfig returns the defaults.
func DefaultModelsConfig() ModelsConfig {
	return ModelsConfig{
		Package:    "models",
		ImportPath: "example.com/api/models",
		Dir:        "go/models",
		FileName:   casing.Casing{Style: casing.StyleSnake},
		TypeName:   casing.Casing{Style: casing.StylePascal},
	}
}

const timeLocator = "go/time.Time"

// Models writes one file per named schema into a single package.
type Models struct {
	cfg ModelsConfig
	pc  *codegen.Context
}

// NewModels returns the provider.
func NewModels() codegen.Provider {
	return &Models{}
}

func (m *Models) Name() string { return ModelsTarget }

func (m *Models) Init(pc *codegen.Context, overrides codegen.Overrides) error {
	cfg, err := codegen.DecodeConfig(DefaultModelsConfig(), overrides)
	if err != nil {
		return err
	}
	if cfg.Package == "" || cfg.ImportPath == "" {
		return errors.New("go-models: package and import_path must not be empty")
	}
	m.cfg = cfg
	m.pc = pc
	return nil
}

func (m *Models) Generate(ctx context.Context) (codegen.Output, error) {
	set := m.pc.NewFileSet("\t")
	symbols := emit.Symbols{}
	section := map[string]any{}
	dialect := gol.Dialect{ImportPath: m.cfg.ImportPath}

	if err := set.Declare(timeLocator, "", source.WithName("Time"), source.WithModule("time")); err != nil {
		return nil, err
	}

	for _, s := range m.pc.Data.Schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := m.typeName(s)
		file := path.Join(m.cfg.Dir, m.cfg.FileName.Apply(s.Name)+".go")
		if err := set.Declare(modelLocator(s), file, source.WithName(name), source.WithModule(m.cfg.ImportPath)); err != nil {
			return nil, err
		}

		decls, err := m.declarations(s, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build model %s", s.ID)
		}
		b := set.NewFile(file, dialect)
		b.Append(gol.FileHeader(m.cfg.Package, "apigen"))
		b.Append(node.Lines(true, decls...))

		symbols.Add(file, name)
		section[s.ID] = map[string]any{"name": name, "path": file}
	}

	out, err := emit.Files(m.pc, ModelsTarget, "go", set, symbols)
	if err != nil {
		return nil, err
	}
	out["go"] = map[string]any{"package": m.cfg.ImportPath, "models": section}
	return out, nil
}

func modelLocator(s *api.Schema) string {
	return "go/" + s.Locator()
}

func (m *Models) typeName(s *api.Schema) string {
	return casing.Identifier(m.cfg.TypeName.Apply(s.Name))
}

func (m *Models) declarations(s *api.Schema, name string) ([]any, error) {
	doc := s.Description
	if s.Deprecated {
		doc = joinDoc(doc, "Deprecated: marked deprecated in the API description.")
	}

	switch {
	case s.Kind == api.KindObject && len(s.Properties) > 0:
		st, err := gol.NewStruct(name, gol.StructOptions{Doc: doc, Fields: m.fields(s)})
		if err != nil {
			return nil, err
		}
		return []any{st}, nil

	case s.Kind == api.KindEnum:
		base := m.primitive(s.EnumBase, "")
		td, err := gol.NewTypeDecl(name, base, gol.TypeDeclOptions{Doc: doc})
		if err != nil {
			return nil, err
		}
		consts := make([]*gol.Const, 0, len(s.EnumValues))
		for _, v := range s.EnumValues {
			value := v
			if s.EnumBase == api.KindString {
				value = strconv.Quote(v)
			}
			consts = append(consts, &gol.Const{
				Name:  name + casing.Identifier(casing.ToPascalCase(v)),
				Type:  name,
				Value: value,
			})
		}
		block, err := gol.NewConstBlock(consts...)
		if err != nil {
			return nil, err
		}
		return []any{td, block}, nil

	default:
		alias := s.Kind == api.KindOneOf || s.Kind == api.KindAny || s.Kind == api.KindUnknown
		td, err := gol.NewTypeDecl(name, m.shape(s), gol.TypeDeclOptions{Doc: doc, Alias: alias})
		if err != nil {
			return nil, err
		}
		return []any{td}, nil
	}
}

func (m *Models) fields(s *api.Schema) []*gol.Field {
	fields := make([]*gol.Field, 0, len(s.Properties))
	for _, p := range s.Properties {
		typ := m.typeOf(p.Schema)
		tag := p.Name
		if !p.Required {
			tag += ",omitempty"
			if pointable(p.Schema) {
				typ = gol.Pointer(typ)
			}
		}
		fields = append(fields, &gol.Field{
			Name:    casing.Identifier(casing.ToPascalCase(p.Name)),
			Type:    typ,
			Tags:    map[string]string{"json": tag},
			TagKeys: []string{"json"},
			Doc:     p.Description,
		})
	}
	return fields
}

// pointable reports whether an optional value of the schema needs a
// pointer to tell absence from the zero value.
func pointable(s *api.Schema) bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case api.KindArray, api.KindMap, api.KindAny, api.KindOneOf, api.KindUnknown:
		return false
	case api.KindObject:
		return s.IsNamed() && len(s.Properties) > 0
	}
	return true
}

func (m *Models) typeOf(s *api.Schema) any {
	if s == nil {
		return "any"
	}
	if s.IsNamed() {
		return source.CreateReference(m.typeName(s), modelLocator(s))
	}
	return m.shape(s)
}

func (m *Models) shape(s *api.Schema) any {
	switch s.Kind {
	case api.KindArray:
		return gol.Slice(m.typeOf(s.Items))
	case api.KindMap:
		return gol.Map("string", m.typeOf(s.AdditionalProperties))
	case api.KindObject:
		if s.AdditionalProperties != nil {
			return gol.Map("string", m.typeOf(s.AdditionalProperties))
		}
		return gol.Map("string", "any")
	case api.KindEnum:
		return m.primitive(s.EnumBase, "")
	case api.KindOneOf, api.KindAny, api.KindUnknown:
		return "any"
	case api.KindString:
		if s.Format == "date-time" {
			return source.CreateReference("Time", timeLocator)
		}
		return "string"
	default:
		return m.primitive(s.Kind, s.Format)
	}
}

func (m *Models) primitive(kind api.SchemaKind, format string) string {
	switch kind {
	case api.KindInteger:
		if format == "int32" {
			return "int32"
		}
		return "int64"
	case api.KindNumber:
		if format == "float" {
			return "float32"
		}
		return "float64"
	case api.KindBoolean:
		return "bool"
	case api.KindString:
		return "string"
	default:
		return "any"
	}
}

func joinDoc(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n\n" + b
}
