package state

import "reflect"

// Mergeable lets a record type define how a partial update is folded into
// it. Struct states implement it to opt into partial updates; without it a
// struct value replaces the previous state wholesale.
type Mergeable[T any] interface {
	MergeState(patch T) T
}

// mergeState applies the update policy for a candidate value:
//   - an absent candidate keeps prev
//   - prev implementing Mergeable decides the result
//   - a map candidate is shallow-merged onto a map prev of the same type
//   - with T an interface, a string-keyed map candidate is also merged onto
//     a string-keyed map prev whose values it can hold; the result keeps
//     prev's type
//   - anything else replaces prev
func mergeState[T any](prev, candidate T) T {
	if isAbsent(candidate) {
		return prev
	}
	if m, ok := any(prev).(Mergeable[T]); ok {
		return m.MergeState(candidate)
	}

	next := reflect.ValueOf(candidate)
	if next.Kind() != reflect.Map {
		return candidate
	}
	base := reflect.ValueOf(prev)
	if !base.IsValid() || base.Kind() != reflect.Map || base.IsNil() || !mapsMerge(base.Type(), next.Type()) {
		return candidate
	}

	typ := base.Type()
	merged := reflect.MakeMapWithSize(typ, base.Len()+next.Len())
	iter := base.MapRange()
	for iter.Next() {
		merged.SetMapIndex(iter.Key(), iter.Value())
	}
	iter = next.MapRange()
	for iter.Next() {
		merged.SetMapIndex(iter.Key().Convert(typ.Key()), iter.Value())
	}
	return merged.Interface().(T)
}

// mapsMerge reports whether a map of type patch can be folded into a map of
// type base.
func mapsMerge(base, patch reflect.Type) bool {
	if base == patch {
		return true
	}
	return base.Key().Kind() == reflect.String &&
		patch.Key().Kind() == reflect.String &&
		patch.Elem().AssignableTo(base.Elem())
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
