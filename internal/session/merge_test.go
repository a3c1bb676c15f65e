package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		base  map[string]any
		patch map[string]any
		want  map[string]any
	}{
		{
			name:  "scalar overwrite",
			base:  map[string]any{"a": 1.0, "b": "x"},
			patch: map[string]any{"b": "y"},
			want:  map[string]any{"a": 1.0, "b": "y"},
		},
		{
			name:  "new key added",
			base:  map[string]any{"a": 1.0},
			patch: map[string]any{"c": true},
			want:  map[string]any{"a": 1.0, "c": true},
		},
		{
			name:  "explicit null overwrites",
			base:  map[string]any{"a": 1.0},
			patch: map[string]any{"a": nil},
			want:  map[string]any{"a": nil},
		},
		{
			name: "nested objects merge key-wise",
			base: map[string]any{
				"summary": map[string]any{"purpose": "analysis", "period": "Q1"},
			},
			patch: map[string]any{
				"summary": map[string]any{"period": "Q2"},
			},
			want: map[string]any{
				"summary": map[string]any{"purpose": "analysis", "period": "Q2"},
			},
		},
		{
			name: "arrays replaced wholesale",
			base: map[string]any{
				"items": []any{"a", "b", "c"},
			},
			patch: map[string]any{
				"items": []any{"z"},
			},
			want: map[string]any{
				"items": []any{"z"},
			},
		},
		{
			name:  "object replaces scalar",
			base:  map[string]any{"a": 1.0},
			patch: map[string]any{"a": map[string]any{"nested": true}},
			want:  map[string]any{"a": map[string]any{"nested": true}},
		},
		{
			name:  "scalar replaces object",
			base:  map[string]any{"a": map[string]any{"nested": true}},
			patch: map[string]any{"a": "flat"},
			want:  map[string]any{"a": "flat"},
		},
		{
			name:  "empty patch is identity",
			base:  map[string]any{"a": 1.0},
			patch: map[string]any{},
			want:  map[string]any{"a": 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.base, tt.patch))
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{
		"obj":  map[string]any{"keep": 1.0},
		"list": []any{"a"},
	}
	patch := map[string]any{
		"obj":  map[string]any{"add": 2.0},
		"list": []any{"b"},
	}

	out := Merge(base, patch)

	assert.Equal(t, map[string]any{"keep": 1.0}, base["obj"])
	assert.Equal(t, []any{"a"}, base["list"])
	assert.Equal(t, map[string]any{"add": 2.0}, patch["obj"])

	// Mutating the result must not leak back into the patch.
	out["obj"].(map[string]any)["add"] = 99.0
	out["list"].([]any)[0] = "mutated"
	assert.Equal(t, 2.0, patch["obj"].(map[string]any)["add"])
	assert.Equal(t, "b", patch["list"].([]any)[0])
}

func TestMerge_DeeplyNested(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1.0, "d": 2.0},
		},
	}
	patch := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"d": 3.0},
		},
	}

	out := Merge(base, patch)

	inner, ok := out["a"].(map[string]any)["b"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, inner["c"])
	assert.Equal(t, 3.0, inner["d"])
}
