package typescript

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// Param is a function or method parameter.
type Param struct {
	Name     string
	Type     any
	Optional bool
	Default  any
	// Modifier is written before the name, e.g. "private readonly" in a
	// constructor.
	Modifier string
}

func (p *Param) AppendTo(b *source.Builder) {
	if p.Modifier != "" {
		b.Append(p.Modifier, " ")
	}
	b.Append(p.Name, source.When(p.Optional, "?"))
	if !source.IsNil(p.Type) {
		b.Append(": ", p.Type)
	}
	if !source.IsNil(p.Default) {
		b.Append(" = ", p.Default)
	}
}

// MethodOptions configures a Method.
type MethodOptions struct {
	node.Base
	Doc        *Doc
	Params     []*Param
	ReturnType any
	Async      bool
	Static     bool
	Access     string
	// Body is written indented between the braces.
	Body any
}

// Method is a class method or constructor.
type Method struct {
	name string
	opts MethodOptions
}

// NewMethod returns a method.
func NewMethod(name string, opts MethodOptions) (*Method, error) {
	if err := node.Require("typescript.Method", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Method{name: name, opts: opts}, nil
}

func (m *Method) AppendTo(b *source.Builder) {
	node.Write(b, m.opts.Base, m.write)
}

func (m *Method) write(b *source.Builder) {
	b.Append(m.opts.Doc)
	b.Append(
		source.When(m.opts.Access != "", m.opts.Access, " "),
		source.When(m.opts.Static, "static "),
		source.When(m.opts.Async, "async "),
		m.name,
		node.List{
			Items:             node.Nodes(m.opts.Params),
			Open:              "(",
			Close:             ")",
			Separator:         ", ",
			MaxLineLength:     MaxLineLength,
			TrailingSeparator: true,
		},
	)
	if !source.IsNil(m.opts.ReturnType) {
		b.Append(": ", m.opts.ReturnType)
	}
	if source.IsNil(m.opts.Body) {
		b.AppendLine(" {}")
		return
	}
	b.AppendLine(" {")
	b.Indent(func(b *source.Builder) {
		b.Append(m.opts.Body)
		b.EnsureLine()
	})
	b.AppendLine("}")
}

// ClassOptions configures a Class.
type ClassOptions struct {
	node.Base
	Doc        *Doc
	Export     bool
	Extends    any
	Implements []any
	Properties []*Property
	Members    []*Method
}

// Class is a class declaration.
type Class struct {
	name any
	opts ClassOptions
}

// NewClass returns a class declaration.
func NewClass(name any, opts ClassOptions) (*Class, error) {
	if err := node.Require("typescript.Class", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Class{name: name, opts: opts}, nil
}

func (c *Class) AppendTo(b *source.Builder) {
	node.Write(b, c.opts.Base, c.write)
}

func (c *Class) write(b *source.Builder) {
	b.Append(c.opts.Doc)
	b.Append(source.When(c.opts.Export, "export "), "class ", c.name)
	if !source.IsNil(c.opts.Extends) {
		b.Append(" extends ", c.opts.Extends)
	}
	if len(c.opts.Implements) > 0 {
		b.Append(" implements ", source.Join(", ", c.opts.Implements...))
	}
	b.AppendLine(" {")
	b.Indent(func(b *source.Builder) {
		b.Append(node.Nodes(c.opts.Properties)...)
		if len(c.opts.Properties) > 0 && len(c.opts.Members) > 0 {
			b.AppendLine()
		}
		b.Append(node.Lines(true, node.Nodes(c.opts.Members)...))
	})
	b.AppendLine("}")
}
