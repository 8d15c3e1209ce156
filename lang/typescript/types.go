package typescript

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// UnionType is A | B | C.
type UnionType struct{ members []any }

// Union returns the union of the members. Nil members are dropped.
func Union(members ...any) *UnionType {
	return &UnionType{members: members}
}

func (u *UnionType) AppendTo(b *source.Builder) {
	b.Append(source.Join(" | ", u.members...))
}

// ArrayOf returns T[], parenthesizing unions.
func ArrayOf(elem any) source.Value {
	if _, ok := elem.(*UnionType); ok {
		return source.Concat("(", elem, ")[]")
	}
	return source.Concat(elem, "[]")
}

// Generic returns Name<A, B>.
func Generic(name any, args ...any) source.Value {
	return source.Concat(name, "<", source.Join(", ", args...), ">")
}

// Record returns Record<K, V>.
func Record(key, value any) source.Value {
	return Generic("Record", key, value)
}

// TypeAliasOptions configures a TypeAlias.
type TypeAliasOptions struct {
	node.Base
	Doc    *Doc
	Export bool
}

// TypeAlias is `type Name = T;`.
type TypeAlias struct {
	name any
	typ  any
	opts TypeAliasOptions
}

// NewTypeAlias returns a type alias. name may be a string or a value such
// as a Reference.
func NewTypeAlias(name, typ any, opts TypeAliasOptions) (*TypeAlias, error) {
	if err := node.Require("typescript.TypeAlias", node.Required("name", name), node.Required("type", typ)); err != nil {
		return nil, err
	}
	return &TypeAlias{name: name, typ: typ, opts: opts}, nil
}

func (t *TypeAlias) AppendTo(b *source.Builder) {
	node.Write(b, t.opts.Base, t.write)
}

func (t *TypeAlias) write(b *source.Builder) {
	b.Append(t.opts.Doc)
	if t.opts.Export {
		b.Append("export ")
	}
	b.AppendLine("type ", t.name, " = ", t.typ, ";")
}
