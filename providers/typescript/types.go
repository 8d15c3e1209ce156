// Package typescript generates TypeScript model types and fetch clients.
package typescript

import (
	"strconv"

	"github.com/teranos/apigen/api"
	"github.com/teranos/apigen/casing"
	ts "github.com/teranos/apigen/lang/typescript"
	"github.com/teranos/apigen/source"
)

// typeMapper renders schemas as TypeScript type expressions. Named schemas
// become references to their declaration.
type typeMapper struct {
	typeName casing.Casing
}

func (m typeMapper) ref(s *api.Schema) *source.Reference {
	return source.CreateReference(m.typeName.Apply(s.Name), modelLocator(s))
}

// modelLocator is where the models provider declares a schema's type.
func modelLocator(s *api.Schema) string {
	return "typescript/" + s.Locator()
}

func (m typeMapper) typeOf(s *api.Schema) any {
	if s == nil {
		return "unknown"
	}
	if s.IsNamed() {
		return m.nullable(s, m.ref(s))
	}
	return m.nullable(s, m.shape(s))
}

// shape renders the schema itself, ignoring its name.
func (m typeMapper) shape(s *api.Schema) any {
	switch s.Kind {
	case api.KindString:
		return "string"
	case api.KindNumber, api.KindInteger:
		return "number"
	case api.KindBoolean:
		return "boolean"
	case api.KindArray:
		return ts.ArrayOf(m.typeOf(s.Items))
	case api.KindMap:
		return ts.Record("string", m.typeOf(s.AdditionalProperties))
	case api.KindEnum:
		return m.enumUnion(s)
	case api.KindOneOf:
		members := make([]any, 0, len(s.OneOf))
		for _, o := range s.OneOf {
			members = append(members, m.typeOf(o))
		}
		return ts.Union(members...)
	case api.KindObject:
		return m.inlineObject(s)
	default:
		return "unknown"
	}
}

func (m typeMapper) nullable(s *api.Schema, t any) any {
	if s.Nullable {
		return ts.Union(t, "null")
	}
	return t
}

func (m typeMapper) enumUnion(s *api.Schema) *ts.UnionType {
	members := make([]any, 0, len(s.EnumValues))
	for _, v := range s.EnumValues {
		if s.EnumBase == api.KindString {
			members = append(members, ts.StringLiteral(v))
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			members = append(members, v)
			continue
		}
		members = append(members, ts.StringLiteral(v))
	}
	return ts.Union(members...)
}

// inlineObject renders { a: T; b?: U } on one line.
func (m typeMapper) inlineObject(s *api.Schema) any {
	if len(s.Properties) == 0 {
		if s.AdditionalProperties != nil {
			return ts.Record("string", m.typeOf(s.AdditionalProperties))
		}
		return ts.Record("string", "unknown")
	}
	return source.Concat("{ ", source.Each(s.Properties, "; ", func(p *api.Property) any {
		return source.Concat(ts.PropertyName(p.Name), source.When(!p.Required, "?"), ": ", m.typeOf(p.Schema))
	}), " }")
}

// properties renders the members of an interface.
func (m typeMapper) properties(s *api.Schema, readonly bool) ([]*ts.Property, error) {
	props := make([]*ts.Property, 0, len(s.Properties))
	for _, p := range s.Properties {
		prop, err := ts.NewProperty(p.Name, m.typeOf(p.Schema), ts.PropertyOptions{
			Doc:      ts.NewDoc(ts.DocOptions{Description: p.Description}),
			Optional: !p.Required,
			Readonly: readonly && p.ReadOnly,
		})
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}
