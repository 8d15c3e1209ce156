// Package source provides the text emission engine shared by every target
// language: writable values, an indentation-aware builder, and deferred
// cross-file references resolved when a file is finalized.
package source

import (
	"reflect"
)

// Value is anything a Builder can write.
//
// Builder.Append additionally accepts plain strings, func(*Builder) and
// []any, which behave like Literal, Callback and Concat respectively.
type Value interface {
	AppendTo(b *Builder)
}

// Literal is raw text.
type Literal string

func (l Literal) AppendTo(b *Builder) {
	b.write(string(l))
}

// Callback writes through the builder when resolved.
type Callback func(b *Builder)

func (f Callback) AppendTo(b *Builder) {
	if f != nil {
		f(b)
	}
}

// Group writes its members in order with Separator between them. Nil members
// and nested groups with no members left are dropped before separators are
// placed. Empty strings are kept. A nested Group uses its own separator; it
// is never flattened into the enclosing one.
type Group struct {
	Values    []any
	Separator string
}

func (g Group) AppendTo(b *Builder) {
	first := true
	for _, v := range g.Values {
		if IsNil(v) || isEmptyGroup(v) {
			continue
		}
		if !first && g.Separator != "" {
			b.write(g.Separator)
		}
		first = false
		b.appendValue(v)
	}
}

func isEmptyGroup(v any) bool {
	var g Group
	switch v := v.(type) {
	case Group:
		g = v
	case *Group:
		g = *v
	default:
		return false
	}
	for _, m := range g.Values {
		if !IsNil(m) && !isEmptyGroup(m) {
			return false
		}
	}
	return true
}

// Join returns a group separated by sep.
func Join(sep string, values ...any) Group {
	return Group{Values: values, Separator: sep}
}

// Concat returns a group with no separator.
func Concat(values ...any) Group {
	return Group{Values: values}
}

// When returns the values as a group if cond holds, nil otherwise. The nil
// result is dropped by enclosing groups, so optional fragments never leave a
// dangling separator.
func When(cond bool, values ...any) any {
	if !cond {
		return nil
	}
	if len(values) == 1 {
		return values[0]
	}
	return Concat(values...)
}

// Each maps items to values and joins them with sep.
func Each[T any](items []T, sep string, fn func(T) any) Group {
	values := make([]any, 0, len(items))
	for _, item := range items {
		values = append(values, fn(item))
	}
	return Join(sep, values...)
}

// IsNil reports whether v is nil or a typed nil. Such values are never written.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
