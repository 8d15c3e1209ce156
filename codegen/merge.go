package codegen

import (
	"reflect"
)

// Output is a structured result fragment. Nested maps must be Output or
// map[string]any to merge recursively; slices concatenate; everything else
// overwrites.
type Output = map[string]any

// Merge folds source into target key by key and returns target (a new map
// if target is nil):
//   - a map value merges into an existing map at the same key, otherwise it
//     is assigned
//   - a slice value is appended to an existing slice at the same key,
//     otherwise it is assigned
//   - any other value overwrites
//
// Values taken from source are deep-copied, so source keeps no handle into
// the result.
func Merge(target, source Output) Output {
	if target == nil {
		target = make(Output, len(source))
	}
	for key, incoming := range source {
		existing, has := target[key]
		switch in := incoming.(type) {
		case map[string]any:
			if ex, ok := existing.(map[string]any); has && ok {
				target[key] = Merge(ex, in)
				continue
			}
			target[key] = Merge(nil, in)
		default:
			if isSlice(incoming) {
				if has && isSlice(existing) {
					target[key] = appendSlices(existing, incoming)
					continue
				}
				target[key] = cloneValue(incoming)
				continue
			}
			target[key] = incoming
		}
	}
	return target
}

// MergeAll folds the fragments left to right into a new result.
func MergeAll(fragments ...Output) Output {
	result := Output{}
	for _, f := range fragments {
		result = Merge(result, f)
	}
	return result
}

func isSlice(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice
}

// appendSlices concatenates b onto a. Slices of different element types
// become []any.
func appendSlices(a, b any) any {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() == vb.Type() {
		out := reflect.MakeSlice(va.Type(), 0, va.Len()+vb.Len())
		out = reflect.AppendSlice(out, va)
		out = reflect.AppendSlice(out, reflect.ValueOf(cloneValue(b)))
		return out.Interface()
	}
	out := make([]any, 0, va.Len()+vb.Len())
	for i := 0; i < va.Len(); i++ {
		out = append(out, va.Index(i).Interface())
	}
	for i := 0; i < vb.Len(); i++ {
		out = append(out, cloneValue(vb.Index(i).Interface()))
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return Merge(nil, x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	if isSlice(v) {
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}
