package kotlin

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// Parameter is a constructor parameter, optionally declaring a property.
type Parameter struct {
	Name        string
	Type        any
	Default     any
	Property    bool
	Mutable     bool
	Annotations []any
}

func (p *Parameter) AppendTo(b *source.Builder) {
	for _, a := range p.Annotations {
		b.Append(a, " ")
	}
	if p.Property {
		if p.Mutable {
			b.Append("var ")
		} else {
			b.Append("val ")
		}
	}
	b.Append(Name(p.Name), ": ", p.Type)
	if !source.IsNil(p.Default) {
		b.Append(" = ", p.Default)
	}
}

// ClassOptions configures a Class.
type ClassOptions struct {
	node.Base
	Doc         *Doc
	Annotations []any
	Data        bool
	Parameters  []*Parameter
	Extends     []any
	// Body is written between braces; a class without a body has none.
	Body any
}

// Class is a class declaration; Data makes it a data class.
type Class struct {
	name any
	opts ClassOptions
}

// NewClass returns a class declaration.
func NewClass(name any, opts ClassOptions) (*Class, error) {
	if err := node.Require("kotlin.Class", node.Required("name", name)); err != nil {
		return nil, err
	}
	if opts.Data {
		if err := node.Require("kotlin.Class", node.Required("parameters", opts.Parameters)); err != nil {
			return nil, err
		}
	}
	return &Class{name: name, opts: opts}, nil
}

func (c *Class) AppendTo(b *source.Builder) {
	node.Write(b, c.opts.Base, c.write)
}

func (c *Class) write(b *source.Builder) {
	b.Append(c.opts.Doc)
	for _, a := range c.opts.Annotations {
		b.AppendLine(a)
	}
	b.Append(source.When(c.opts.Data, "data "), "class ", c.name)
	if len(c.opts.Parameters) > 0 {
		b.Append(node.List{
			Items:             node.Nodes(c.opts.Parameters),
			Open:              "(",
			Close:             ")",
			Separator:         ", ",
			MaxLineLength:     MaxLineLength,
			TrailingSeparator: true,
		})
	}
	if len(c.opts.Extends) > 0 {
		b.Append(" : ", source.Join(", ", c.opts.Extends...))
	}
	if source.IsNil(c.opts.Body) {
		b.AppendLine()
		return
	}
	b.AppendLine(" {")
	b.Indent(func(b *source.Builder) {
		b.Append(c.opts.Body)
		b.EnsureLine()
	})
	b.AppendLine("}")
}

// EnumEntry is one constant of an enum class.
type EnumEntry struct {
	Name        string
	Args        []any
	Annotations []any
}

func (e *EnumEntry) AppendTo(b *source.Builder) {
	for _, a := range e.Annotations {
		b.Append(a, " ")
	}
	b.Append(Name(e.Name))
	if len(e.Args) > 0 {
		b.Append("(", source.Join(", ", e.Args...), ")")
	}
}

// EnumOptions configures an Enum.
type EnumOptions struct {
	node.Base
	Doc         *Doc
	Annotations []any
	Parameters  []*Parameter
	Entries    []*EnumEntry
}

// Enum is an enum class.
type Enum struct {
	name any
	opts EnumOptions
}

// NewEnum returns an enum class.
func NewEnum(name any, opts EnumOptions) (*Enum, error) {
	if err := node.Require("kotlin.Enum", node.Required("name", name), node.Required("entries", opts.Entries)); err != nil {
		return nil, err
	}
	return &Enum{name: name, opts: opts}, nil
}

func (e *Enum) AppendTo(b *source.Builder) {
	node.Write(b, e.opts.Base, e.write)
}

func (e *Enum) write(b *source.Builder) {
	b.Append(e.opts.Doc)
	for _, a := range e.opts.Annotations {
		b.AppendLine(a)
	}
	b.Append("enum class ", e.name)
	if len(e.opts.Parameters) > 0 {
		b.Append("(", source.Join(", ", node.Nodes(e.opts.Parameters)...), ")")
	}
	b.AppendLine(" {")
	b.Indent(func(b *source.Builder) {
		for i, entry := range e.opts.Entries {
			b.Append(entry)
			if i < len(e.opts.Entries)-1 {
				b.AppendLine(",")
			} else {
				b.AppendLine(";")
			}
		}
	})
	b.AppendLine("}")
}
