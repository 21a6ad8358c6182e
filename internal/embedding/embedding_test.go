package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_lengthAndRange(t *testing.T) {
	g := New()
	for _, dim := range []int{1, 2, 4, 128, 1536} {
		vec := g.Vector(dim)
		require.Len(t, vec, dim)
		for i, v := range vec {
			if v < 0 || v >= 1 {
				t.Fatalf("dim %d: value %d = %v outside [0,1)", dim, i, v)
			}
		}
	}
}

func TestVector_nonPositiveDim(t *testing.T) {
	g := NewSeeded(1)
	assert.Empty(t, g.Vector(0))
	assert.Empty(t, g.Vector(-3))
}

func TestVector_freshSlicePerCall(t *testing.T) {
	g := NewSeeded(7)
	a := g.Vector(8)
	b := g.Vector(8)
	assert.NotEqual(t, a, b)

	a[0] = 42
	assert.NotEqual(t, float32(42), b[0])
}

func TestNewSeeded_deterministic(t *testing.T) {
	assert.Equal(t, NewSeeded(99).Vector(16), NewSeeded(99).Vector(16))
}
