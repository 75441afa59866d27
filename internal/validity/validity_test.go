package validity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Verdict
	}{
		{"true", "true", Valid},
		{"uppercase with trailing space", "TRUE ", Valid},
		{"one", "1", Valid},
		{"yes", "yes", Valid},
		{"valid", "Valid", Valid},
		{"false", "false", Invalid},
		{"zero", "0", Invalid},
		{"no", "NO", Invalid},
		{"invalid padded", "  invalid  ", Invalid},
		{"free text", "maybe", Unknown},
		{"n/a", "n/a", Unknown},
		{"empty", "", Unknown},
		{"whitespace only", "   ", Unknown},
		{"nonzero number not in set", "2", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_IdempotentOverStringForm(t *testing.T) {
	// Feeding a verdict's own string form back through Normalize must not
	// change it: extraction and aggregation both normalize.
	assert.Equal(t, Valid, Normalize(Valid.String()))
	assert.Equal(t, Invalid, Normalize(Invalid.String()))
	assert.Equal(t, Unknown, Normalize(Unknown.String()))
}

func TestMissing(t *testing.T) {
	assert.True(t, Missing(""))
	assert.True(t, Missing("  \t"))
	assert.False(t, Missing("n/a")) // present but ambiguous, not missing
	assert.False(t, Missing("false"))
}

func TestVerdict_Resolved(t *testing.T) {
	assert.True(t, Valid.Resolved())
	assert.True(t, Invalid.Resolved())
	assert.False(t, Unknown.Resolved())
}
