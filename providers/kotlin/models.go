// Package kotlin generates Kotlin data classes and enum classes.
package kotlin

import (
	"context"
	"path"
	"strings"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	kt "github.com/teranos/apigen/lang/kotlin"
	"github.com/teranos/apigen/providers/internal/emit"
	"github.com/teranos/apigen/source"
)

// ModelsTarget is the registry name of the provider.
const ModelsTarget = "kotlin-models"

// ModelsConfig configures the provider.
type ModelsConfig struct {
	Package  string        `mapstructure:"package"`
	Dir      string        `mapstructure:"dir"`
	TypeName casing.Casing `mapstructure:"type_name"`
	// Serializable annotates classes with @Serializable and imports
	// kotlinx.serialization.
	Serializable bool `mapstructure:"serializable"`
}

// DefaultModelsConfig returns the defaults.
func DefaultModelsConfig() ModelsConfig {
	return ModelsConfig{
		Package:      "com.example.api.models",
		Dir:          "kotlin",
		TypeName:     casing.Casing{Style: casing.StylePascal},
		Serializable: true,
	}
}

const (
	serializationPackage = "kotlinx.serialization"
	serializableLocator  = "kotlin/kotlinx.serialization.Serializable"
	serialNameLocator    = "kotlin/kotlinx.serialization.SerialName"
)

// Models writes one file per named schema.
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
	if cfg.Package == "" {
		return errors.New("kotlin-models: package must not be empty")
	}
	m.cfg = cfg
	m.pc = pc
	return nil
}

func (m *Models) Generate(ctx context.Context) (codegen.Output, error) {
	set := m.pc.NewFileSet("    ")
	symbols := emit.Symbols{}
	section := map[string]any{}
	dialect := kt.Dialect{Package: m.cfg.Package}

	if m.cfg.Serializable {
		for _, loc := range []string{serializableLocator, serialNameLocator} {
			name := loc[strings.LastIndex(loc, ".")+1:]
			if err := set.Declare(loc, "", source.WithName(name), source.WithModule(serializationPackage)); err != nil {
				return nil, err
			}
		}
	}

	dir := path.Join(m.cfg.Dir, strings.ReplaceAll(m.cfg.Package, ".", "/"))
	for _, s := range m.pc.Data.Schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := m.cfg.TypeName.Apply(s.Name)
		file := path.Join(dir, name+".kt")
		if err := set.Declare(modelLocator(s), file, source.WithName(name), source.WithModule(m.cfg.Package)); err != nil {
			return nil, err
		}

		decl, err := m.declaration(s, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build model %s", s.ID)
		}
		set.NewFile(file, dialect).Append(kt.FileHeader(m.cfg.Package), decl)

		symbols.Add(file, name)
		section[s.ID] = map[string]any{"name": name, "path": file}
	}

	out, err := emit.Files(m.pc, ModelsTarget, "kotlin", set, symbols)
	if err != nil {
		return nil, err
	}
	out["kotlin"] = map[string]any{"package": m.cfg.Package, "models": section}
	return out, nil
}

func (m *Models) ref(s *api.Schema) *source.Reference {
	return source.CreateReference(m.cfg.TypeName.Apply(s.Name), modelLocator(s))
}

func modelLocator(s *api.Schema) string {
	return "kotlin/" + s.Locator()
}

func (m *Models) annotations() []any {
	if !m.cfg.Serializable {
		return nil
	}
	return []any{source.Concat("@", source.CreateReference("Serializable", serializableLocator))}
}

func (m *Models) serialName(wire string) []any {
	if !m.cfg.Serializable {
		return nil
	}
	return []any{source.Concat("@", source.CreateReference("SerialName", serialNameLocator), "(", kt.StringLiteral(wire), ")")}
}

func (m *Models) declaration(s *api.Schema, name string) (source.Value, error) {
	switch {
	case s.Kind == api.KindEnum:
		return m.enum(s, name)
	case s.Kind == api.KindObject && len(s.Properties) > 0:
		return m.dataClass(s, name)
	default:
		doc := kt.NewDoc(kt.DocOptions{Description: s.Description})
		return source.Concat(doc, "typealias ", name, " = ", m.shape(s), "\n"), nil
	}
}

func (m *Models) dataClass(s *api.Schema, name string) (source.Value, error) {
	params := make([]*kt.Parameter, 0, len(s.Properties))
	var tags []*kt.DocTag
	for _, p := range s.Properties {
		param := &kt.Parameter{
			Name:        casing.Identifier(casing.ToCamelCase(p.Name)),
			Type:        m.typeOf(p.Schema),
			Property:    true,
			Annotations: m.serialName(p.Name),
		}
		if !p.Required || (p.Schema != nil && p.Schema.Nullable) {
			param.Type = kt.Nullable(m.typeOf(p.Schema))
			param.Default = "null"
		}
		params = append(params, param)

		if p.Description != "" {
			tag, err := kt.Tag("property", []any{param.Name, p.Description}, kt.DocTagOptions{})
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
		}
	}

	class, err := kt.NewClass(name, kt.ClassOptions{
		Doc:         kt.NewDoc(kt.DocOptions{Description: s.Description, Tags: tags}),
		Annotations: m.annotations(),
		Data:        true,
		Parameters:  params,
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

func (m *Models) enum(s *api.Schema, name string) (source.Value, error) {
	entries := make([]*kt.EnumEntry, 0, len(s.EnumValues))
	for _, v := range s.EnumValues {
		value := any(v)
		if s.EnumBase == api.KindString {
			value = kt.StringLiteral(v)
		}
		entries = append(entries, &kt.EnumEntry{
			Name:        enumEntryName(v),
			Args:        []any{value},
			Annotations: m.serialName(v),
		})
	}

	enum, err := kt.NewEnum(name, kt.EnumOptions{
		Doc:         kt.NewDoc(kt.DocOptions{Description: s.Description}),
		Annotations: m.annotations(),
		Parameters:  []*kt.Parameter{{Name: "value", Type: m.primitive(s.EnumBase, ""), Property: true}},
		Entries:     entries,
	})
	if err != nil {
		return nil, err
	}
	return enum, nil
}

func enumEntryName(v string) string {
	name := casing.ToScreamingSnakeCase(v)
	if name == "" {
		return "EMPTY"
	}
	return casing.Identifier(name)
}

func (m *Models) typeOf(s *api.Schema) any {
	if s == nil {
		return "Any"
	}
	if s.IsNamed() {
		return m.ref(s)
	}
	return m.shape(s)
}

func (m *Models) shape(s *api.Schema) any {
	switch s.Kind {
	case api.KindArray:
		return kt.Generic("List", m.typeOf(s.Items))
	case api.KindMap:
		return kt.Generic("Map", "String", m.typeOf(s.AdditionalProperties))
	case api.KindObject:
		if s.AdditionalProperties != nil && len(s.Properties) == 0 {
			return kt.Generic("Map", "String", m.typeOf(s.AdditionalProperties))
		}
		return kt.Generic("Map", "String", kt.Nullable("Any"))
	case api.KindEnum:
		return m.primitive(s.EnumBase, "")
	case api.KindOneOf, api.KindAny, api.KindUnknown:
		return "Any"
	default:
		return m.primitive(s.Kind, s.Format)
	}
}

func (m *Models) primitive(kind api.SchemaKind, format string) string {
	switch kind {
	case api.KindInteger:
		if format == "int64" {
			return "Long"
		}
		return "Int"
	case api.KindNumber:
		if format == "float" {
			return "Float"
		}
		return "Double"
	case api.KindBoolean:
		return "Boolean"
	case api.KindString:
		return "String"
	default:
		return "Any"
	}
}
