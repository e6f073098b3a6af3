package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
	tag  string
}

func TestDeepEqual(t *testing.T) {
	fn := func() {}
	shared := &point{X: 1}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "nested maps equal", a: map[string]any{"a": map[string]any{"b": 1}}, b: map[string]any{"a": map[string]any{"b": 1}}, want: true},
		{name: "nested maps differ", a: map[string]any{"a": map[string]any{"b": 1}}, b: map[string]any{"a": map[string]any{"b": 2}}, want: false},
		{name: "key present with nil differs from absent key", a: map[string]any{"a": 1}, b: map[string]any{"a": 1, "b": nil}, want: false},
		{name: "same length different keys", a: map[string]any{"a": 1}, b: map[string]any{"b": 1}, want: false},
		{name: "nil and empty map", a: map[string]int(nil), b: map[string]int{}, want: true},
		{name: "slices equal", a: []int{1, 2, 3}, b: []int{1, 2, 3}, want: true},
		{name: "slices differ in length", a: []int{1, 2}, b: []int{1, 2, 3}, want: false},
		{name: "nil and empty slice", a: []string(nil), b: []string{}, want: true},
		{name: "arrays", a: [2]int{1, 2}, b: [2]int{1, 3}, want: false},
		{name: "structs with unexported fields", a: point{X: 1, tag: "a"}, b: point{X: 1, tag: "a"}, want: true},
		{name: "structs differ in unexported field", a: point{X: 1, tag: "a"}, b: point{X: 1, tag: "b"}, want: false},
		{name: "pointers compare pointees", a: &point{X: 1}, b: &point{X: 1}, want: true},
		{name: "same pointer", a: shared, b: shared, want: true},
		{name: "nil and non-nil pointer", a: (*point)(nil), b: &point{}, want: false},
		{name: "numeric types must match", a: 1, b: 1.0, want: false},
		{name: "strings", a: "red", b: "red", want: true},
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "nil against value", a: nil, b: 0, want: false},
		{name: "sequence against record", a: []any{1}, b: map[string]any{"0": 1}, want: false},
		{name: "same func", a: fn, b: fn, want: true},
		{name: "nil interfaces inside maps", a: map[string]any{"a": nil}, b: map[string]any{"a": nil}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeepEqual(tt.a, tt.b))
			assert.Equal(t, tt.want, DeepEqual(tt.b, tt.a), "DeepEqual must be symmetric")
		})
	}
}

func TestEqualHelpers(t *testing.T) {
	assert.True(t, EqualComparable(3, 3))
	assert.False(t, EqualComparable("a", "b"))
	assert.True(t, EqualDeep([]int{1}, []int{1}))
}
