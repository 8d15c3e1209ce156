package typescript

import (
	"github.com/teranos/apigen/node"
	"github.com/teranos/apigen/source"
)

// VariableOptions configures a Variable.
type VariableOptions struct {
	node.Base
	Doc      *Doc
	Type     any
	Value    any
	Export   bool
	Readonly bool
}

// Variable is a const or let declaration.
type Variable struct {
	name string
	opts VariableOptions
}

// NewVariable returns a variable declaration. Readonly variables are const.
func NewVariable(name string, opts VariableOptions) (*Variable, error) {
	if err := node.Require("typescript.Variable", node.Required("name", name)); err != nil {
		return nil, err
	}
	return &Variable{name: name, opts: opts}, nil
}

func (v *Variable) AppendTo(b *source.Builder) {
	node.Write(b, v.opts.Base, v.write)
}

func (v *Variable) write(b *source.Builder) {
	b.Append(v.opts.Doc)
	if v.opts.Export {
		b.Append("export ")
	}
	if v.opts.Readonly {
		b.Append("const ")
	} else {
		b.Append("let ")
	}
	b.Append(v.name)
	if !source.IsNil(v.opts.Type) {
		b.Append(": ", v.opts.Type)
	}
	if !source.IsNil(v.opts.Value) {
		b.Append(" = ", v.opts.Value)
	}
	b.AppendLine(";")
}
