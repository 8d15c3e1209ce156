// Package node defines the protocol shared by every AST node.
//
// A node is built once from an options struct by a constructor that checks
// required fields, and written by its AppendTo method, which delegates to
// Write with the node's own write function:
//
//	type Variable struct{ opts VariableOptions }
//
//	func (v *Variable) AppendTo(b *source.Builder) {
//	    node.Write(b, v.opts.Base, v.write)
//	}
//
// Nodes are source.Values, so they can be appended anywhere a value is
// accepted, including inside groups and other nodes.
package node

import (
	"reflect"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/source"
)

// Node is a constructed unit that writes itself into a builder.
type Node = source.Value

// Inject holds values written around a node's own output.
type Inject struct {
	Before []any
	After  []any
}

// Base carries the options every node accepts.
type Base struct {
	Inject Inject
}

// Write writes the injections around onWrite.
func Write(b *source.Builder, base Base, onWrite func(b *source.Builder)) {
	b.Append(base.Inject.Before...)
	onWrite(b)
	b.Append(base.Inject.After...)
}

// Field is one required option of a node.
type Field struct {
	Name  string
	Value any
}

// Required pairs a field name with its value for Require.
func Required(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Require returns a MissingFieldError naming every field whose value is
// nil or the zero value, or nil if all are set.
func Require(kind string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if isZero(f.Value) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &errors.MissingFieldError{Node: kind, Fields: missing}
}

// Must returns n or panics with err. For statically known nodes.
func Must[T any](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

// Nodes converts a typed node slice for use in groups and lists.
func Nodes[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
			return rv.Len() == 0
		}
		return false
	}
	return rv.IsZero()
}
