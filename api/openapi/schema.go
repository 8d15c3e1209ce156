package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/teranos/apigen/api"
)

// namedSchema registers a component schema before converting it, so
// references back to it from its own properties terminate.
func (c *converter) namedSchema(name string, v *openapi3.Schema) *api.Schema {
	if s, ok := c.named[name]; ok {
		return s
	}
	s := &api.Schema{ID: name, Name: name}
	c.named[name] = s
	c.byPointer[v] = s
	c.fill(s, v)
	return s
}

func (c *converter) schemaRef(ref *openapi3.SchemaRef) *api.Schema {
	if ref == nil || ref.Value == nil {
		return &api.Schema{Kind: api.KindAny}
	}
	if ref.Ref != "" {
		return c.namedSchema(refName(ref.Ref), ref.Value)
	}
	if s, ok := c.byPointer[ref.Value]; ok {
		return s
	}
	s := &api.Schema{}
	c.byPointer[ref.Value] = s
	c.fill(s, ref.Value)
	return s
}

// refName returns the last segment of a JSON reference.
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func (c *converter) fill(s *api.Schema, v *openapi3.Schema) {
	if s.Description == "" {
		s.Description = v.Description
	}
	s.Format = v.Format
	s.Nullable = v.Nullable || typeIs(v, openapi3.TypeNull)
	s.Deprecated = v.Deprecated
	s.Default = v.Default

	switch {
	case len(v.Enum) > 0:
		s.Kind = api.KindEnum
		s.EnumBase = baseKind(v)
		for _, e := range v.Enum {
			if e == nil {
				s.Nullable = true
				continue
			}
			s.EnumValues = append(s.EnumValues, fmt.Sprint(e))
		}
	case len(v.OneOf) > 0 || len(v.AnyOf) > 0:
		s.Kind = api.KindOneOf
		for _, m := range append(append(openapi3.SchemaRefs{}, v.OneOf...), v.AnyOf...) {
			s.OneOf = append(s.OneOf, c.schemaRef(m))
		}
	case len(v.AllOf) > 0:
		s.Kind = api.KindObject
		c.fillObject(s, v)
		for _, m := range v.AllOf {
			if m == nil || m.Value == nil {
				continue
			}
			c.fillObject(s, m.Value)
			for _, sub := range m.Value.AllOf {
				if sub != nil && sub.Value != nil {
					c.fillObject(s, sub.Value)
				}
			}
		}
	case typeIs(v, openapi3.TypeArray):
		s.Kind = api.KindArray
		s.Items = c.schemaRef(v.Items)
	case typeIs(v, openapi3.TypeObject) || len(v.Properties) > 0 || v.AdditionalProperties.Schema != nil:
		if len(v.Properties) == 0 && (v.AdditionalProperties.Schema != nil || isTrue(v.AdditionalProperties.Has)) {
			s.Kind = api.KindMap
			s.AdditionalProperties = c.schemaRef(v.AdditionalProperties.Schema)
			return
		}
		s.Kind = api.KindObject
		c.fillObject(s, v)
	default:
		s.Kind = baseKind(v)
	}
}

// fillObject appends v's properties that s does not have yet.
func (c *converter) fillObject(s *api.Schema, v *openapi3.Schema) {
	required := make(map[string]bool, len(v.Required))
	for _, r := range v.Required {
		required[r] = true
	}
	names := make([]string, 0, len(v.Properties))
	for name := range v.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	existing := make(map[string]*api.Property, len(s.Properties))
	for _, p := range s.Properties {
		existing[p.Name] = p
	}
	for name := range required {
		if p, ok := existing[name]; ok {
			p.Required = true
		}
	}
	for _, name := range names {
		if _, ok := existing[name]; ok {
			continue
		}
		ref := v.Properties[name]
		prop := &api.Property{
			Name:     name,
			Required: required[name],
			Schema:   c.schemaRef(ref),
		}
		if ref != nil && ref.Value != nil {
			prop.Description = ref.Value.Description
			prop.ReadOnly = ref.Value.ReadOnly
		}
		s.Properties = append(s.Properties, prop)
		existing[name] = prop
	}
	if v.AdditionalProperties.Schema != nil && s.AdditionalProperties == nil {
		s.AdditionalProperties = c.schemaRef(v.AdditionalProperties.Schema)
	}
}

func baseKind(v *openapi3.Schema) api.SchemaKind {
	switch {
	case typeIs(v, openapi3.TypeString):
		return api.KindString
	case typeIs(v, openapi3.TypeInteger):
		return api.KindInteger
	case typeIs(v, openapi3.TypeNumber):
		return api.KindNumber
	case typeIs(v, openapi3.TypeBoolean):
		return api.KindBoolean
	case typeIs(v, openapi3.TypeArray):
		return api.KindArray
	case typeIs(v, openapi3.TypeObject):
		return api.KindObject
	}
	return api.KindAny
}

func typeIs(v *openapi3.Schema, typ string) bool {
	return v.Type != nil && v.Type.Includes(typ)
}

func isTrue(b *bool) bool {
	return b != nil && *b
}
