// Package api is the canonical, language-neutral description of an API
// that generators consume. Parsers normalize their input formats into it.
package api

import (
	"sort"
	"strings"
)

//go:generate go tool stringer -type=SchemaKind -trimprefix=Kind -output=schema_kind_string.go

// SchemaKind is the structural kind of a schema.
type SchemaKind int

const (
	KindUnknown SchemaKind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindArray
	KindObject
	KindMap
	KindEnum
	KindOneOf
	KindAny
)

// Data is the normalized description of one or more API documents.
type Data struct {
	Title       string
	Version     string
	Description string
	Sources     []string
	Services    []*Service
	Endpoints   []*Endpoint
	// Schemas holds the named schemas, sorted by ID.
	Schemas []*Schema
}

// Schema describes a data shape. Named schemas are shared by pointer, so
// recursive schemas form cycles.
type Schema struct {
	// ID is unique among named schemas; empty for inline ones.
	ID          string
	Name        string
	Description string
	Kind        SchemaKind
	Format      string
	Nullable    bool
	Deprecated  bool
	Default     any

	Properties           []*Property
	AdditionalProperties *Schema
	Items                *Schema

	EnumValues []string
	EnumBase   SchemaKind

	OneOf []*Schema
}

// IsNamed reports whether the schema is a named declaration rather than
// an inline shape.
func (s *Schema) IsNamed() bool {
	return s != nil && s.ID != ""
}

// Locator returns the declaration locator generators register named
// schemas under.
func (s *Schema) Locator() string {
	return SchemaLocator(s.ID)
}

// SchemaLocator returns the locator of the named schema with the given ID.
func SchemaLocator(id string) string {
	return "schema/" + id
}

// Property is a member of an object schema.
type Property struct {
	Name        string
	Description string
	Required    bool
	ReadOnly    bool
	Schema      *Schema
}

// ParameterLocation says where a parameter travels.
type ParameterLocation string

const (
	InPath   ParameterLocation = "path"
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

// Parameter is a non-body endpoint input.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Schema      *Schema
}

// RequestBody is an endpoint's body input.
type RequestBody struct {
	ContentType string
	Description string
	Required    bool
	Schema      *Schema
}

// Response is one documented endpoint outcome.
type Response struct {
	// Status is an HTTP status code, a range like "2XX", or "default".
	Status      string
	Description string
	ContentType string
	Schema      *Schema
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return strings.HasPrefix(r.Status, "2")
}

// Endpoint is one operation on a path.
type Endpoint struct {
	ID          string
	Name        string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []*Parameter
	RequestBody *RequestBody
	Responses   []*Response
}

// ParametersIn returns the parameters at the given location.
func (e *Endpoint) ParametersIn(in ParameterLocation) []*Parameter {
	var out []*Parameter
	for _, p := range e.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// SuccessResponse returns the lowest 2xx response, or nil.
func (e *Endpoint) SuccessResponse() *Response {
	var best *Response
	for _, r := range e.Responses {
		if r.IsSuccess() && (best == nil || r.Status < best.Status) {
			best = r
		}
	}
	return best
}

// Service groups endpoints, one per tag.
type Service struct {
	ID          string
	Name        string
	Description string
	Endpoints   []*Endpoint
}

// Schema returns the named schema with the given ID.
func (d *Data) Schema(id string) (*Schema, bool) {
	i := sort.Search(len(d.Schemas), func(i int) bool { return d.Schemas[i].ID >= id })
	if i < len(d.Schemas) && d.Schemas[i].ID == id {
		return d.Schemas[i], true
	}
	return nil, false
}

// Service returns the service with the given ID.
func (d *Data) Service(id string) (*Service, bool) {
	for _, s := range d.Services {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}
