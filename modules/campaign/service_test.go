package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeContentPatchWins(t *testing.T) {
	existing := map[string]any{"tagline": "A", "description": "B"}
	patch := map[string]any{"tagline": "C"}

	merged := MergeContent(existing, patch)

	assert.Equal(t, "C", merged["tagline"])
	assert.Equal(t, "B", merged["description"], "untouched fields must survive the merge")
}

func TestMergeContentDoesNotMutateInputs(t *testing.T) {
	existing := map[string]any{"tagline": "A"}
	patch := map[string]any{"tagline": "C"}

	MergeContent(existing, patch)

	assert.Equal(t, "A", existing["tagline"])
}

func TestMergeContentAddsNewKeys(t *testing.T) {
	merged := MergeContent(map[string]any{"a": 1}, map[string]any{"b": 2})

	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, 2, merged["b"])
}
