// Package embedding synthesizes the random vectors a smoke run inserts and queries.
package embedding

import "math/rand/v2"

// Generator produces embeddings whose values are uniform in [0,1).
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded from the runtime. Two runs never share a sequence.
func New() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a generator with a fixed sequence, for tests.
func NewSeeded(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Vector returns a fresh embedding of length dim.
func (g *Generator) Vector(dim int) []float32 {
	if dim <= 0 {
		return []float32{}
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = g.rng.Float32()
	}
	return vec
}
