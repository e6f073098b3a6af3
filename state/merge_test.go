package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type palette struct {
	Color   string
	Support string
}

// MergeState keeps fields the patch leaves empty.
func (p palette) MergeState(patch palette) palette {
	if patch.Color != "" {
		p.Color = patch.Color
	}
	if patch.Support != "" {
		p.Support = patch.Support
	}
	return p
}

func TestMergeState_Maps(t *testing.T) {
	prev := map[string]any{"a": 1, "b": 2}
	next := mergeState(prev, map[string]any{"b": 3})

	assert.Equal(t, map[string]any{"a": 1, "b": 3}, next)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, prev, "merge must not mutate the previous state")
}

func TestMergeState_AnyState(t *testing.T) {
	var prev any = map[string]any{"a": 1}

	assert.Equal(t, any(map[string]any{"a": 1, "c": 4}), mergeState(prev, any(map[string]any{"c": 4})))
	assert.Equal(t, any([]int{1, 2, 3}), mergeState(prev, any([]int{1, 2, 3})), "sequences replace wholesale")
	assert.Equal(t, any(7), mergeState(prev, any(7)), "scalars replace wholesale")
	assert.Equal(t, prev, mergeState(prev, nil), "absent candidate keeps the state")
}

func TestMergeState_StringKeyedMapsOfOtherTypes(t *testing.T) {
	type label string
	tests := []struct {
		name      string
		prev      any
		candidate any
		want      any
	}{
		{"values fit prev", map[string]any{"a": 1}, map[string]int{"b": 2}, map[string]any{"a": 1, "b": 2}},
		{"named keys", map[string]any{"a": 1}, map[label]string{"a": "x"}, map[string]any{"a": "x"}},
		{"values do not fit prev", map[string]int{"a": 1}, map[string]any{"b": 2}, map[string]any{"b": 2}},
		{"non-string keys", map[int]any{1: 1}, map[int]int{2: 2}, map[int]int{2: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeState(tt.prev, tt.candidate))
		})
	}
}

func TestStore_MergesStringKeyedMapsIntoAnyState(t *testing.T) {
	prev := map[string]any{"color": "red"}
	store := NewValue[any](prev)

	changed, err := store.Set(map[string]string{"background": "blue"})
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]any{"color": "red", "background": "blue"}, store.Raw())
	assert.Equal(t, map[string]any{"color": "red"}, prev, "previous state must not be modified")
}

func TestMergeState_NilMaps(t *testing.T) {
	var empty map[string]int
	assert.Equal(t, map[string]int{"a": 1}, mergeState(empty, map[string]int{"a": 1}))
	assert.Equal(t, map[string]int{"a": 1}, mergeState(map[string]int{"a": 1}, empty))
}

func TestMergeState_Structs(t *testing.T) {
	type plain struct{ A, B int }
	assert.Equal(t, plain{B: 2}, mergeState(plain{A: 1, B: 1}, plain{B: 2}), "structs without MergeState replace")

	got := mergeState(palette{Color: "red", Support: "blue"}, palette{Color: "green"})
	assert.Equal(t, palette{Color: "green", Support: "blue"}, got)
}
