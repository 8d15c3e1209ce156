package golang

import (
	"strconv"

	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// Field is one struct field.
type Field struct {
	Name string
	Type any
	// Tags maps tag keys to values, written in TagKeys order.
	Tags    map[string]string
	TagKeys []string
	Doc     string
}

func (f *Field) AppendTo(b *source.Builder) {
	b.Append(node.Comment(node.LineComments, f.Doc))
	b.Append(f.Name, " ", f.Type)
	if len(f.TagKeys) > 0 {
		b.Append(" `")
		for i, k := range f.TagKeys {
			if i > 0 {
				b.Append(" ")
			}
			b.Append(k, ":", strconv.Quote(f.Tags[k]))
		}
		b.Append("`")
	}
	b.AppendLine()
}

// StructOptions configures a Struct.
type StructOptions struct {
	node.Base
	Doc    string
	Fields []*Field
}

// Struct is a named struct type declaration.
type Struct struct {
	name string
	opts StructOptions
}

// NewStruct returns a struct declaration.
func NewStruct(name string, opts StructOptions) (*Struct, error) {
	if err := node.Require("golang.Struct", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Struct{name: name, opts: opts}, nil
}

func (s *Struct) AppendTo(b *source.Builder) {
	node.Write(b, s.opts.Base, s.write)
}

func (s *Struct) write(b *source.Builder) {
	b.Append(node.Comment(node.LineComments, s.opts.Doc))
	if len(s.opts.Fields) == 0 {
		b.AppendLine("type ", s.name, " struct{}")
		return
	}
	b.AppendLine("type ", s.name, " struct {")
	b.Indent(func(b *source.Builder) {
		b.Append(node.Nodes(s.opts.Fields)...)
	})
	b.AppendLine("}")
}

// TypeDeclOptions configures a TypeDecl.
type TypeDeclOptions struct {
	node.Base
	Doc   string
	Alias bool
}

// TypeDecl is `type Name T` or, as an alias, `type Name = T`.
type TypeDecl struct {
	name string
	typ  any
	opts TypeDeclOptions
}

// NewTypeDecl returns a type declaration.
func NewTypeDecl(name string, typ any, opts TypeDeclOptions) (*TypeDecl, error) {
	if err := node.Require("golang.TypeDecl", node.Required("name", name), node.Required("type", typ)); err != nil {
		return nil, err
	}
	return &TypeDecl{name: name, typ: typ, opts: opts}, nil
}

func (t *TypeDecl) AppendTo(b *source.Builder) {
	node.Write(b, t.opts.Base, t.write)
}

func (t *TypeDecl) write(b *source.Builder) {
	b.Append(node.Comment(node.LineComments, t.opts.Doc))
	b.Append("type ", t.name, " ")
	if t.opts.Alias {
		b.Append("= ")
	}
	b.AppendLine(t.typ)
}

// Const is one constant of a ConstBlock.
type Const struct {
	Name  string
	Type  any
	Value any
	Doc   string
}

// ConstBlock is a parenthesized const declaration.
type ConstBlock struct {
	consts []*Const
}

// NewConstBlock returns a const block.
func NewConstBlock(consts ...*Const) (*ConstBlock, error) {
	if err := node.Require("golang.ConstBlock", node.Required("consts", consts)); err != nil {
		return nil, err
	}
	return &ConstBlock{consts: consts}, nil
}

func (c *ConstBlock) AppendTo(b *source.Builder) {
	b.AppendLine("const (")
	b.Indent(func(b *source.Builder) {
		for _, k := range c.consts {
			b.Append(node.Comment(node.LineComments, k.Doc))
			b.Append(k.Name)
			if !source.IsNil(k.Type) {
				b.Append(" ", k.Type)
			}
			b.AppendLine(" = ", k.Value)
		}
	})
	b.AppendLine(")")
}

// Pointer returns *T.
func Pointer(typ any) source.Value { return source.Concat("*", typ) }

// Slice returns []T.
func Slice(typ any) source.Value { return source.Concat("[]", typ) }

// Map returns map[K]V.
func Map(key, value any) source.Value { return source.Concat("map[", key, "]", value) }
