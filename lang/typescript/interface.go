package typescript

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// PropertyOptions configures a Property.
type PropertyOptions struct {
	node.Base
	Doc      *Doc
	Optional bool
	Readonly bool
	Static   bool
	Value    any
}

// Property is a member of an interface or class.
type Property struct {
	name string
	typ  any
	opts PropertyOptions
}

// NewProperty returns a property. typ may be nil for class properties
// with an initializer.
func NewProperty(name string, typ any, opts PropertyOptions) (*Property, error) {
	if err := node.Require("typescript.Property", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Property{name: name, typ: typ, opts: opts}, nil
}

func (p *Property) AppendTo(b *source.Builder) {
	node.Write(b, p.opts.Base, p.write)
}

func (p *Property) write(b *source.Builder) {
	b.Append(p.opts.Doc)
	b.Append(
		source.When(p.opts.Static, "static "),
		source.When(p.opts.Readonly, "readonly "),
		PropertyName(p.name),
		source.When(p.opts.Optional, "?"),
	)
	if !source.IsNil(p.typ) {
		b.Append(": ", p.typ)
	}
	if !source.IsNil(p.opts.Value) {
		b.Append(" = ", p.opts.Value)
	}
	b.AppendLine(";")
}

// InterfaceOptions configures an Interface.
type InterfaceOptions struct {
	node.Base
	Doc        *Doc
	Export     bool
	Extends    []any
	Properties []*Property
}

// Interface is an interface declaration.
type Interface struct {
	name any
	opts InterfaceOptions
}

// NewInterface returns an interface declaration.
func NewInterface(name any, opts InterfaceOptions) (*Interface, error) {
	if err := node.Require("typescript.Interface", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Interface{name: name, opts: opts}, nil
}

func (i *Interface) AppendTo(b *source.Builder) {
	node.Write(b, i.opts.Base, i.write)
}

func (i *Interface) write(b *source.Builder) {
	b.Append(i.opts.Doc)
	if i.opts.Export {
		b.Append("export ")
	}
	b.Append("interface ", i.name)
	if len(i.opts.Extends) > 0 {
		b.Append(" extends ", source.Join(", ", i.opts.Extends...))
	}
	if len(i.opts.Properties) == 0 {
		b.AppendLine(" {}")
		return
	}
	b.AppendLine(" {")
	b.Indent(func(b *source.Builder) {
		b.Append(node.Nodes(i.opts.Properties)...)
	})
	b.AppendLine("}")
}
