// Package markdown generates an API reference in Markdown: an index page,
// one page per service and a models page. Types link to their model
// section through declarations.
package markdown

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/codegen"
	md "github.com/teranos/apigen/lang/markdown"
	"github.com/teranos/apigen/providers/internal/emit"
	"github.com/teranos/apigen/source"
)

// DocsTarget is the registry name of the provider.
const DocsTarget = "markdown-docs"

// DocsConfig configures the provider.
type DocsConfig struct {
	Dir        string `mapstructure:"dir"`
	IndexFile  string `mapstructure:"index_file"`
	ModelsFile string `mapstructure:"models_file"`
	// Title replaces the API title on the index page.
	Title string `mapstructure:"title"`
}

// DefaultDocsConfig returns the defaults.
func DefaultDocsConfig() DocsConfig {
	return DocsConfig{
		Dir:        "docs",
		IndexFile:  "README.md",
		ModelsFile: "models.md",
	}
}

// Docs is the documentation provider.
type Docs struct {
	cfg DocsConfig
	pc  *codegen.Context
}

// NewDocs returns the provider.
func NewDocs() codegen.Provider {
	return &Docs{}
}

func (d *Docs) Name() string { return DocsTarget }

func (d *Docs) Init(pc *codegen.Context, overrides codegen.Overrides) error {
	cfg, err := codegen.DecodeConfig(DefaultDocsConfig(), overrides)
	if err != nil {
		return err
	}
	d.cfg = cfg
	d.pc = pc
	return nil
}

func serviceLocator(id string) string { return "doc/service/" + id }

func schemaDocLocator(id string) string { return "doc/" + api.SchemaLocator(id) }

func (d *Docs) Generate(ctx context.Context) (codegen.Output, error) {
	data := d.pc.Data
	set := d.pc.NewFileSet("  ")
	symbols := emit.Symbols{}
	pages := map[string]any{}

	modelsFile := path.Join(d.cfg.Dir, d.cfg.ModelsFile)
	for _, s := range data.Schemas {
		if err := set.Declare(schemaDocLocator(s.ID), modelsFile, source.WithName(s.Name)); err != nil {
			return nil, err
		}
	}
	for _, svc := range data.Services {
		if err := set.Declare(serviceLocator(svc.ID), d.servicePath(svc), source.WithName(svc.Name)); err != nil {
			return nil, err
		}
	}

	indexFile := path.Join(d.cfg.Dir, d.cfg.IndexFile)
	set.NewFile(indexFile, md.Dialect{}).Append(d.index())
	pages["index"] = indexFile

	for _, svc := range data.Services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := d.servicePath(svc)
		set.NewFile(file, md.Dialect{}).Append(d.servicePage(svc))
		for _, e := range svc.Endpoints {
			symbols.Add(file, e.Name)
		}
		pages[svc.ID] = file
	}

	if len(data.Schemas) > 0 {
		set.NewFile(modelsFile, md.Dialect{}).Append(d.modelsPage())
		for _, s := range data.Schemas {
			symbols.Add(modelsFile, s.Name)
		}
		pages["models"] = modelsFile
	}

	out, err := emit.Files(d.pc, DocsTarget, "markdown", set, symbols)
	if err != nil {
		return nil, err
	}
	out["docs"] = map[string]any{"pages": pages}
	return out, nil
}

func (d *Docs) servicePath(svc *api.Service) string {
	return path.Join(d.cfg.Dir, svc.ID+".md")
}

func (d *Docs) index() source.Value {
	data := d.pc.Data
	title := d.cfg.Title
	if title == "" {
		title = data.Title
	}
	if title == "" {
		title = "API reference"
	}

	return source.Callback(func(b *source.Builder) {
		b.Append(md.Heading(1, title))
		if data.Version != "" {
			b.Append(md.Paragraph("Version " + data.Version))
		}
		b.Append(md.Paragraph(data.Description))

		if len(data.Services) > 0 {
			rows := make([][]any, 0, len(data.Services))
			for _, svc := range data.Services {
				rows = append(rows, []any{
					source.CreateReference(svc.Name, serviceLocator(svc.ID)),
					strconv.Itoa(len(svc.Endpoints)),
					firstLine(svc.Description),
				})
			}
			b.Append(md.Heading(2, "Services"), table([]string{"Service", "Endpoints", "Description"}, rows))
		}
		if len(data.Schemas) > 0 {
			b.Append(md.Paragraph("Data types are described in [Models](" + d.cfg.ModelsFile + ")."))
		}
	})
}

func (d *Docs) servicePage(svc *api.Service) source.Value {
	return source.Callback(func(b *source.Builder) {
		b.Append(md.Heading(1, svc.Name), md.Paragraph(svc.Description))
		for _, e := range svc.Endpoints {
			b.Append(d.endpoint(e))
		}
	})
}

func (d *Docs) endpoint(e *api.Endpoint) source.Value {
	return source.Callback(func(b *source.Builder) {
		b.Append(md.Heading(2, e.Name))
		b.AppendLine(md.Code(strings.ToUpper(e.Method)+" "+e.Path))
		b.AppendLine()
		if e.Deprecated {
			b.Append(md.Paragraph("**Deprecated.**"))
		}
		b.Append(md.Paragraph(e.Summary))
		if e.Description != e.Summary {
			b.Append(md.Paragraph(e.Description))
		}

		if len(e.Parameters) > 0 {
			rows := make([][]any, 0, len(e.Parameters))
			for _, p := range e.Parameters {
				rows = append(rows, []any{md.Code(p.Name), string(p.In), d.typeText(p.Schema), yesNo(p.Required), firstLine(p.Description)})
			}
			b.Append(md.Heading(3, "Parameters"), table([]string{"Name", "In", "Type", "Required", "Description"}, rows))
		}

		if rb := e.RequestBody; rb != nil {
			b.Append(md.Heading(3, "Request body"))
			b.AppendLine(d.typeText(rb.Schema), " (", md.Code(rb.ContentType), ")", source.When(rb.Required, ", required"))
			b.AppendLine()
			b.Append(md.Paragraph(rb.Description))
		}

		if len(e.Responses) > 0 {
			rows := make([][]any, 0, len(e.Responses))
			for _, r := range e.Responses {
				var typ any = "-"
				if r.Schema != nil {
					typ = d.typeText(r.Schema)
				}
				rows = append(rows, []any{r.Status, typ, firstLine(r.Description)})
			}
			b.Append(md.Heading(3, "Responses"), table([]string{"Status", "Type", "Description"}, rows))
		}
	})
}

func (d *Docs) modelsPage() source.Value {
	return source.Callback(func(b *source.Builder) {
		b.Append(md.Heading(1, "Models"))
		for _, s := range d.pc.Data.Schemas {
			b.Append(md.Heading(2, s.Name))
			if s.Deprecated {
				b.Append(md.Paragraph("**Deprecated.**"))
			}
			b.Append(md.Paragraph(s.Description))

			switch {
			case s.Kind == api.KindEnum:
				values := make([]any, 0, len(s.EnumValues))
				for _, v := range s.EnumValues {
					values = append(values, md.Code(v))
				}
				b.AppendLine("One of: ", source.Join(", ", values...))
				b.AppendLine()
			case len(s.Properties) > 0:
				rows := make([][]any, 0, len(s.Properties))
				for _, p := range s.Properties {
					rows = append(rows, []any{md.Code(p.Name), d.typeText(p.Schema), yesNo(p.Required), firstLine(p.Description)})
				}
				b.Append(table([]string{"Property", "Type", "Required", "Description"}, rows))
			default:
				b.AppendLine("Type: ", d.shapeText(s))
				b.AppendLine()
			}
		}
	})
}

// typeText links named schemas and describes inline ones.
func (d *Docs) typeText(s *api.Schema) any {
	if s == nil {
		return "any"
	}
	if s.IsNamed() {
		return source.Concat(source.CreateReference(s.Name, schemaDocLocator(s.ID)), source.When(s.Nullable, " or null"))
	}
	return source.Concat(d.shapeText(s), source.When(s.Nullable, " or null"))
}

func (d *Docs) shapeText(s *api.Schema) any {
	switch s.Kind {
	case api.KindArray:
		return source.Concat("array of ", d.typeText(s.Items))
	case api.KindMap:
		return source.Concat("map of ", d.typeText(s.AdditionalProperties))
	case api.KindOneOf:
		members := make([]any, 0, len(s.OneOf))
		for _, o := range s.OneOf {
			members = append(members, d.typeText(o))
		}
		return source.Concat("one of ", source.Join(", ", members...))
	case api.KindEnum:
		return "enum"
	case api.KindUnknown:
		return "any"
	}
	name := strings.ToLower(s.Kind.String())
	if s.Format != "" {
		name += " (" + s.Format + ")"
	}
	return name
}

func table(header []string, rows [][]any) source.Value {
	t, err := md.NewTable(md.TableOptions{Header: header, Rows: rows})
	if err != nil {
		return source.Callback(func(b *source.Builder) { b.Fail(err) })
	}
	return t
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// firstLine keeps table cells on one line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "|", "\\|")
}
