package typescript

import (
	"context"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/codegen"
	"github.com/teranos/apigen/errors"
	ts "github.com/teranos/apigen/lang/typescript"
	"github.com/teranos/apigen/providers/internal/emit"
	"github.com/teranos/apigen/source"
)

// ClientsTarget is the registry name of the clients provider.
const ClientsTarget = "typescript-clients"

// ClientsConfig configures the clients provider.
type ClientsConfig struct {
	Dir        string        `mapstructure:"dir"`
	FileName   casing.Casing `mapstructure:"file_name"`
	ClassName  casing.Casing `mapstructure:"class_name"`
	MethodName casing.Casing `mapstructure:"method_name"`
	// TypeName must match the models provider so references carry the
	// same names before resolution.
	TypeName  casing.Casing `mapstructure:"type_name"`
	IndexFile string        `mapstructure:"index_file"`
}

// DefaultClientsConfig returns the clients defaults.
func DefaultClientsConfig() ClientsConfig {
	return ClientsConfig{
		Dir:        "clients",
		FileName:   casing.Casing{Style: casing.StyleKebab, Suffix: "-client"},
		ClassName:  casing.Casing{Style: casing.StylePascal, Suffix: "Client"},
		MethodName: casing.Casing{Style: casing.StyleCamel},
		TypeName:   casing.Casing{Style: casing.StylePascal},
		IndexFile:  "clients.ts",
	}
}

// Clients writes one fetch-based client class per service. Model types
// are referenced by schema locator and must have been declared by
// typescript-models earlier in the pipeline.
type Clients struct {
	cfg ClientsConfig
	pc  *codegen.Context
}

// NewClients returns the clients provider.
func NewClients() codegen.Provider {
	return &Clients{}
}

func (c *Clients) Name() string { return ClientsTarget }

func (c *Clients) Init(pc *codegen.Context, overrides codegen.Overrides) error {
	cfg, err := codegen.DecodeConfig(DefaultClientsConfig(), overrides)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.pc = pc
	return nil
}

func (c *Clients) Generate(ctx context.Context) (codegen.Output, error) {
	if len(c.pc.Data.Schemas) > 0 && !hasModels(c.pc.Input) {
		return nil, errors.WithHint(
			errors.Newf("%s needs the models of %s", ClientsTarget, ModelsTarget),
			"list typescript-models before typescript-clients in targets")
	}

	set := c.pc.NewFileSet("  ")
	symbols := emit.Symbols{}
	section := map[string]any{}
	types := typeMapper{typeName: c.cfg.TypeName}
	var files []string

	for _, svc := range c.pc.Data.Services {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := c.cfg.ClassName.Apply(svc.Name)
		file := path.Join(c.cfg.Dir, c.cfg.FileName.Apply(svc.ID)+".ts")
		if err := set.Declare("typescript/client/"+svc.ID, file, source.WithName(name)); err != nil {
			return nil, err
		}

		class, err := c.class(types, svc, name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build client for service %s", svc.ID)
		}
		set.NewFile(file, ts.Dialect{}).
			AppendLine(emit.Header).
			AppendLine().
			ImportsHere().
			Append(class)

		files = append(files, file)
		symbols.Add(file, name)
		section[svc.ID] = map[string]any{"class": name, "path": file}
	}

	if c.cfg.IndexFile != "" && len(files) > 0 {
		writeIndex(set.NewFile(c.cfg.IndexFile, ts.Dialect{}), c.cfg.IndexFile, files)
	}

	out, err := emit.Files(c.pc, ClientsTarget, "typescript", set, symbols)
	if err != nil {
		return nil, err
	}
	out["typescript"] = map[string]any{"clients": section}
	return out, nil
}

func hasModels(input codegen.Output) bool {
	section, ok := input["typescript"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = section["models"].(map[string]any)
	return ok
}

func (c *Clients) class(types typeMapper, svc *api.Service, name string) (*ts.Class, error) {
	ctor, err := ts.NewMethod("constructor", ts.MethodOptions{
		Params: []*ts.Param{
			{Name: "baseUrl", Type: "string", Modifier: "private readonly"},
			{Name: "fetchFn", Type: "typeof fetch", Default: "fetch", Modifier: "private readonly"},
		},
	})
	if err != nil {
		return nil, err
	}

	members := []*ts.Method{ctor}
	for _, e := range svc.Endpoints {
		m, err := c.method(types, e)
		if err != nil {
			return nil, errors.Wrapf(err, "endpoint %s", e.ID)
		}
		members = append(members, m)
	}

	return ts.NewClass(name, ts.ClassOptions{
		Doc:     ts.NewDoc(ts.DocOptions{Description: svc.Description}),
		Export:  true,
		Members: members,
	})
}

// endpointParam is a method parameter backed by an API input.
type endpointParam struct {
	name     string
	wireName string
	in       api.ParameterLocation
	required bool
	schema   *api.Schema
	doc      string
}

const inBody api.ParameterLocation = "body"

func (c *Clients) method(types typeMapper, e *api.Endpoint) (*ts.Method, error) {
	params := methodParams(e)

	tsParams := make([]*ts.Param, 0, len(params))
	var tags []ts.DocTag
	for _, p := range params {
		tsParams = append(tsParams, &ts.Param{Name: p.name, Type: types.typeOf(p.schema), Optional: !p.required})
		if p.doc != "" {
			tags = append(tags, ts.DocTag{Tag: "param", Name: p.name, Description: p.doc})
		}
	}
	if e.Deprecated {
		tags = append(tags, ts.DocTag{Tag: "deprecated"})
	}

	var result *api.Schema
	if r := e.SuccessResponse(); r != nil {
		result = r.Schema
	}
	returnType := any("void")
	if result != nil {
		returnType = types.typeOf(result)
	}

	description := e.Summary
	if e.Description != "" && e.Description != e.Summary {
		description = strings.TrimSpace(description + "\n\n" + e.Description)
	}

	return ts.NewMethod(c.cfg.MethodName.Apply(e.Name), ts.MethodOptions{
		Doc:        ts.NewDoc(ts.DocOptions{Description: description, Tags: tags}),
		Params:     tsParams,
		ReturnType: ts.Generic("Promise", returnType),
		Async:      true,
		Body:       requestBody(e, params, result != nil, returnType),
	})
}

// Locals of a generated method body. Parameters never take these names.
const (
	localQuery    = "_query"
	localSearch   = "_search"
	localHeaders  = "_headers"
	localResponse = "_response"
)

// reservedIdents are names a parameter cannot use: the method body's
// locals and the words TypeScript reserves in strict mode.
var reservedIdents = map[string]bool{
	localQuery: true, localSearch: true, localHeaders: true, localResponse: true,
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "eval": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true, "null": true,
	"package": true, "private": true, "protected": true, "public": true,
	"return": true, "static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true,
}

// methodParams orders inputs so that required parameters come first:
// path, body, query, header. Every parameter gets a distinct identifier;
// a name that is reserved or already taken gets the first free numeric
// suffix.
func methodParams(e *api.Endpoint) []endpointParam {
	var required, optional []endpointParam
	used := map[string]bool{}
	add := func(p endpointParam) {
		p.name = uniqueIdent(p.name, used)
		if p.required {
			required = append(required, p)
			return
		}
		optional = append(optional, p)
	}
	for _, p := range e.ParametersIn(api.InPath) {
		add(endpointParam{name: paramIdent(p.Name), wireName: p.Name, in: api.InPath, required: true, schema: p.Schema, doc: p.Description})
	}
	if rb := e.RequestBody; rb != nil {
		add(endpointParam{name: "body", in: inBody, required: rb.Required, schema: rb.Schema, doc: rb.Description})
	}
	for _, in := range []api.ParameterLocation{api.InQuery, api.InHeader} {
		for _, p := range e.ParametersIn(in) {
			add(endpointParam{name: paramIdent(p.Name), wireName: p.Name, in: in, required: p.Required, schema: p.Schema, doc: p.Description})
		}
	}
	return append(required, optional...)
}

func uniqueIdent(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[candidate] || reservedIdents[candidate]; n++ {
		candidate = name + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// urlTemplate renders the request URL as a template literal.
func urlTemplate(p string, params []endpointParam) string {
	names := map[string]string{}
	for _, ep := range params {
		if ep.in == api.InPath {
			names[ep.wireName] = ep.name
		}
	}
	p = strings.ReplaceAll(p, "`", "\\`")
	p = pathParam.ReplaceAllStringFunc(p, func(m string) string {
		wire := m[1 : len(m)-1]
		name, ok := names[wire]
		if !ok {
			name = paramIdent(wire)
		}
		return "${encodeURIComponent(String(" + name + "))}"
	})
	return "`${this.baseUrl}" + p + "`"
}

func requestBody(e *api.Endpoint, params []endpointParam, hasResult bool, returnType any) source.Value {
	return source.Callback(func(b *source.Builder) {
		var query, headers []endpointParam
		var body *endpointParam
		for i, p := range params {
			switch p.in {
			case api.InQuery:
				query = append(query, p)
			case api.InHeader:
				headers = append(headers, p)
			case inBody:
				body = &params[i]
			}
		}

		url := urlTemplate(e.Path, params)
		if len(query) > 0 {
			b.AppendLine("const ", localQuery, " = new URLSearchParams();")
			for _, p := range query {
				setParam(b, p, source.Concat(localQuery, ".set(", ts.StringLiteral(p.wireName), ", String(", p.name, "));"))
			}
			b.AppendLine("const ", localSearch, " = ", localQuery, ".toString();")
			url += " + (" + localSearch + " ? `?${" + localSearch + "}` : '')"
		}

		if body != nil || len(headers) > 0 {
			b.AppendLine("const ", localHeaders, ": Record<string, string> = {};")
			if body != nil {
				contentType := "application/json"
				if e.RequestBody.ContentType != "" {
					contentType = e.RequestBody.ContentType
				}
				b.AppendLine(localHeaders, "['Content-Type'] = ", ts.StringLiteral(contentType), ";")
			}
			for _, p := range headers {
				setParam(b, p, source.Concat(localHeaders, "[", ts.StringLiteral(p.wireName), "] = String(", p.name, ");"))
			}
		}

		b.AppendLine("const ", localResponse, " = await this.fetchFn(", url, ", {")
		b.Indent(func(b *source.Builder) {
			b.AppendLine("method: ", ts.StringLiteral(strings.ToUpper(e.Method)), ",")
			if body != nil || len(headers) > 0 {
				b.AppendLine("headers: ", localHeaders, ",")
			}
			if body != nil {
				if body.required {
					b.AppendLine("body: JSON.stringify(", body.name, "),")
				} else {
					b.AppendLine("body: ", body.name, " === undefined ? undefined : JSON.stringify(", body.name, "),")
				}
			}
		})
		b.AppendLine("});")
		b.AppendLine("if (!", localResponse, ".ok) {")
		b.IndentLines("throw new Error(`", strings.ToUpper(e.Method), " ", strings.ReplaceAll(e.Path, "`", "\\`"), " failed with status ${", localResponse, ".status}`);")
		b.AppendLine("}")
		if hasResult {
			b.AppendLine("return (await ", localResponse, ".json()) as ", returnType, ";")
		}
	})
}

// setParam writes stmt, guarded against undefined for optional parameters.
func setParam(b *source.Builder, p endpointParam, stmt source.Value) {
	if p.required {
		b.AppendLine(stmt)
		return
	}
	b.AppendLine("if (", p.name, " !== undefined) {")
	b.IndentLines(stmt)
	b.AppendLine("}")
}

func paramIdent(name string) string {
	return casing.Identifier(casing.ToCamelCase(name))
}
