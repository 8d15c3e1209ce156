// Package openapi loads OpenAPI 3 documents with kin-openapi and normalizes
// them into the api model.
package openapi

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

// DefaultVersionConstraint accepts the OpenAPI versions the converter
// understands.
const DefaultVersionConstraint = ">= 3.0.0, < 3.2.0"

// Parser turns API description sources into api.Data.
type Parser struct {
	VersionConstraint string
	fetcher           *Fetcher
	logger            *zap.SugaredLogger
}

// Option configures a Parser.
type Option func(*Parser)

// WithRemote allows fetching remote sources.
func WithRemote(allow bool) Option {
	return func(p *Parser) { p.fetcher.AllowRemote = allow }
}

// WithPrivateHosts allows http(s) sources on loopback and private
// addresses.
func WithPrivateHosts(allow bool) Option {
	return func(p *Parser) { p.fetcher.AllowPrivateHosts = allow }
}

// WithFetchTimeout bounds each http(s) download.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Parser) { p.fetcher.Timeout = d }
}

// WithVersionConstraint sets the accepted openapi versions.
func WithVersionConstraint(c string) Option {
	return func(p *Parser) {
		if c != "" {
			p.VersionConstraint = c
		}
	}
}

// WithLogger sets the parser logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser returns a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{VersionConstraint: DefaultVersionConstraint, fetcher: NewFetcher(nil)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.ComponentLogger("openapi")
	}
	p.fetcher.logger = p.logger
	return p
}

// ParseApisAndTransform loads every source and merges them into one
// description, in source order.
func (p *Parser) ParseApisAndTransform(ctx context.Context, sources ...string) (*api.Data, error) {
	if len(sources) == 0 {
		return nil, errors.WithHint(errors.NewInvalidSourceError("no sources given"), "pass at least one OpenAPI file or URL")
	}

	conv := newConverter(p.logger)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		local, err := p.fetcher.Resolve(ctx, src)
		if err != nil {
			return nil, err
		}
		doc, err := p.loadFile(ctx, local.Path)
		local.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", src)
		}
		if err := conv.add(src, doc); err != nil {
			return nil, err
		}
	}
	return conv.data(), nil
}

// ParseData parses one in-memory document. name identifies it in the
// result's Sources.
func (p *Parser) ParseData(ctx context.Context, name string, data []byte) (*api.Data, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.NewInvalidSourceError("%s: %v", name, err)
	}
	if err := p.checkVersion(doc); err != nil {
		return nil, err
	}
	conv := newConverter(p.logger)
	if err := conv.add(name, doc); err != nil {
		return nil, err
	}
	return conv.data(), nil
}

func (p *Parser) loadFile(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, errors.NewInvalidSourceError("%v", err)
	}
	if err := p.checkVersion(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *Parser) checkVersion(doc *openapi3.T) error {
	v, err := semver.NewVersion(doc.OpenAPI)
	if err != nil {
		return errors.Wrapf(errors.ErrUnsupportedVersion, "invalid openapi version %q: %v", doc.OpenAPI, err)
	}
	constraint, err := semver.NewConstraint(p.VersionConstraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", p.VersionConstraint)
	}
	if !constraint.Check(v) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedVersion, "openapi %s does not satisfy %s", doc.OpenAPI, p.VersionConstraint),
			"adjust parser.openapi_versions in apigen.toml")
	}
	return nil
}

// converter accumulates documents into one api.Data.
type converter struct {
	logger     *zap.SugaredLogger
	out        api.Data
	named      map[string]*api.Schema
	declaredBy map[string]string
	byPointer  map[*openapi3.Schema]*api.Schema
	services   map[string]*api.Service
}

func newConverter(l *zap.SugaredLogger) *converter {
	return &converter{
		logger:     l,
		named:      make(map[string]*api.Schema),
		declaredBy: make(map[string]string),
		byPointer:  make(map[*openapi3.Schema]*api.Schema),
		services:   make(map[string]*api.Service),
	}
}

func (c *converter) add(source string, doc *openapi3.T) error {
	c.out.Sources = append(c.out.Sources, source)
	if doc.Info != nil && c.out.Title == "" {
		c.out.Title = doc.Info.Title
		c.out.Version = doc.Info.Version
		c.out.Description = doc.Info.Description
	}

	for _, tag := range doc.Tags {
		c.service(tag.Name).Description = tag.Description
	}

	if doc.Components != nil {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref := doc.Components.Schemas[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			if first, dup := c.declaredBy[name]; dup && first != source {
				c.logger.Warnw("Schema declared by more than one source, keeping the first",
					logger.FieldSymbol, name,
					"first", first,
					logger.FieldSource, source)
				continue
			}
			c.declaredBy[name] = source
			c.namedSchema(name, ref.Value)
		}
	}

	if doc.Paths == nil {
		return nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)
	for _, p := range keys {
		item := paths[p]
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, method := range methods {
			ep := c.endpoint(p, method, item, ops[method])
			c.out.Endpoints = append(c.out.Endpoints, ep)
			tags := ep.Tags
			if len(tags) == 0 {
				tags = []string{"default"}
			}
			for _, tag := range tags {
				svc := c.service(tag)
				svc.Endpoints = append(svc.Endpoints, ep)
			}
		}
	}
	return nil
}

func (c *converter) data() *api.Data {
	out := c.out
	out.Schemas = make([]*api.Schema, 0, len(c.named))
	for _, s := range c.named {
		out.Schemas = append(out.Schemas, s)
	}
	sort.Slice(out.Schemas, func(i, j int) bool { return out.Schemas[i].ID < out.Schemas[j].ID })
	return &out
}

func (c *converter) service(tag string) *api.Service {
	if svc, ok := c.services[tag]; ok {
		return svc
	}
	svc := &api.Service{ID: casing.ToKebabCase(tag), Name: tag}
	c.services[tag] = svc
	c.out.Services = append(c.out.Services, svc)
	return svc
}

func (c *converter) endpoint(path, method string, item *openapi3.PathItem, op *openapi3.Operation) *api.Endpoint {
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + " " + path
	}
	ep := &api.Endpoint{
		ID:          id,
		Name:        casing.ToCamelCase(id),
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  op.Deprecated,
	}

	params := append(openapi3.Parameters{}, item.Parameters...)
	params = append(params, op.Parameters...)
	seen := make(map[string]int)
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		v := ref.Value
		p := &api.Parameter{
			Name:        v.Name,
			In:          api.ParameterLocation(v.In),
			Description: v.Description,
			Required:    v.Required || v.In == openapi3.ParameterInPath,
			Schema:      c.schemaRef(v.Schema),
		}
		// Operation parameters override path-level ones with the same name and location.
		key := v.In + ":" + v.Name
		if i, ok := seen[key]; ok {
			ep.Parameters[i] = p
			continue
		}
		seen[key] = len(ep.Parameters)
		ep.Parameters = append(ep.Parameters, p)
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body := op.RequestBody.Value
		ct, media := pickContent(body.Content)
		rb := &api.RequestBody{ContentType: ct, Description: body.Description, Required: body.Required}
		if media != nil {
			rb.Schema = c.schemaRef(media.Schema)
		}
		ep.RequestBody = rb
	}

	if op.Responses != nil {
		responses := op.Responses.Map()
		codes := make([]string, 0, len(responses))
		for code := range responses {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			ref := responses[code]
			if ref == nil || ref.Value == nil {
				continue
			}
			r := &api.Response{Status: code}
			if ref.Value.Description != nil {
				r.Description = *ref.Value.Description
			}
			ct, media := pickContent(ref.Value.Content)
			r.ContentType = ct
			if media != nil {
				r.Schema = c.schemaRef(media.Schema)
			}
			ep.Responses = append(ep.Responses, r)
		}
	}
	return ep
}

// pickContent prefers JSON media types, then the first in sorted order.
func pickContent(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	for _, ct := range types {
		if ct == "application/json" || strings.HasSuffix(ct, "+json") {
			return ct, content[ct]
		}
	}
	return types[0], content[types[0]]
}
