package typescript

import (
	"context"
	"path"
	"sort"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	ts "github.com/teranos/apigen/lang/typescript"
	"github.com/teranos/apigen/providers/internal/emit"
	"github.com/teranos/apigen/source"
)

// ModelsTarget is the registry name of the models provider.
const ModelsTarget = "typescript-models"

// ModelsConfig configures the models provider.
type ModelsConfig struct {
	// Dir is where model files go, relative to the output directory.
	Dir      string        `mapstructure:"dir"`
	FileName casing.Casing `mapstructure:"file_name"`
	TypeName casing.Casing `mapstructure:"type_name"`
	// IndexFile re-exports every model. Empty disables it.
	IndexFile string `mapstructure:"index_file"`
	// Readonly marks read-only properties readonly.
	Readonly bool `mapstructure:"readonly"`
}

// DefaultModelsConfig returns the models defaults.
func DefaultModelsConfig() ModelsConfig {
	return ModelsConfig{
		Dir:       "models",
		FileName:  casing.Casing{Style: casing.StyleKebab},
		TypeName:  casing.Casing{Style: casing.StylePascal},
		IndexFile: "index.ts",
		Readonly:  true,
	}
}

// Models writes one interface or type alias per named schema and
// declares each under its schema locator, so later providers can
// reference it.
type Models struct {
	cfg ModelsConfig
	pc  *codegen.Context
}

// NewModels returns the models provider.
func NewModels() codegen.Provider {
	return &Models{}
}

func (m *Models) Name() string { return ModelsTarget }

func (m *Models) Init(pc *codegen.Context, overrides codegen.Overrides) error {
	cfg, err := codegen.DecodeConfig(DefaultModelsConfig(), overrides)
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.pc = pc
	return nil
}

func (m *Models) Generate(ctx context.Context) (codegen.Output, error) {
	set := m.pc.NewFileSet("  ")
	symbols := emit.Symbols{}
	section := map[string]any{}
	types := typeMapper{typeName: m.cfg.TypeName}
	started := map[string]bool{}

	for _, s := range m.pc.Data.Schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := m.cfg.TypeName.Apply(s.Name)
		file := path.Join(m.cfg.Dir, m.cfg.FileName.Apply(s.Name)+".ts")
		if err := set.Declare(modelLocator(s), file, source.WithName(name)); err != nil {
			return nil, err
		}

		decl, err := m.declaration(types, s, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build model %s", s.ID)
		}

		b := set.NewFile(file, ts.Dialect{})
		if started[file] {
			b.AppendLine()
		} else {
			b.AppendLine(emit.Header).AppendLine().ImportsHere()
			started[file] = true
		}
		b.Append(decl)

		symbols.Add(file, name)
		section[s.ID] = map[string]any{"name": name, "path": file}
	}

	if m.cfg.IndexFile != "" && len(started) > 0 {
		files := make([]string, 0, len(started))
		for f := range started {
			files = append(files, f)
		}
		sort.Strings(files)
		writeIndex(set.NewFile(m.cfg.IndexFile, ts.Dialect{}), m.cfg.IndexFile, files)
	}

	out, err := emit.Files(m.pc, ModelsTarget, "typescript", set, symbols)
	if err != nil {
		return nil, err
	}
	out["typescript"] = map[string]any{"models": section}
	return out, nil
}

func (m *Models) declaration(types typeMapper, s *api.Schema, name string) (source.Value, error) {
	var tags []ts.DocTag
	if s.Deprecated {
		tags = append(tags, ts.DocTag{Tag: "deprecated"})
	}
	doc := ts.NewDoc(ts.DocOptions{Description: s.Description, Tags: tags})

	if s.Kind == api.KindObject && len(s.Properties) > 0 && !s.Nullable {
		props, err := types.properties(s, m.cfg.Readonly)
		if err != nil {
			return nil, err
		}
		iface, err := ts.NewInterface(name, ts.InterfaceOptions{Doc: doc, Export: true, Properties: props})
		if err != nil {
			return nil, err
		}
		return iface, nil
	}

	alias, err := ts.NewTypeAlias(name, types.nullable(s, types.shape(s)), ts.TypeAliasOptions{Doc: doc, Export: true})
	if err != nil {
		return nil, err
	}
	return alias, nil
}

// writeIndex writes a barrel file re-exporting every listed module.
func writeIndex(b *source.Builder, index string, files []string) {
	b.AppendLine(emit.Header).AppendLine()
	for _, f := range files {
		b.AppendLine("export * from ", ts.StringLiteral(source.RelativePath(index, f)), ";")
	}
}
