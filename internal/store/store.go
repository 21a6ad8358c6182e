package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEmptyVector = errors.New("vector cannot be empty")
	ErrEmptyID     = errors.New("id cannot be empty")
)

// ErrDimensionMismatch indicates a vector whose length differs from the store's.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

type Result struct {
	ID       string
	Distance float32
}

// Store is an in-memory brute-force vector store keyed by string id.
type Store struct {
	mu       sync.RWMutex
	index    map[string]uint32
	revIndex []string
	arena    *VectorArena
	dim      int
}

// New returns an empty store. A zero dim is fixed by the first insert.
func New(dim int) *Store {
	s := &Store{
		index: make(map[string]uint32),
		dim:   dim,
	}
	if dim > 0 {
		s.arena = NewVectorArena(dim)
	}
	return s
}

// Insert stores vector under id. A repeated id replaces the earlier vector.
func (s *Store) Insert(id string, vector []float32) error {
	if id == "" {
		return ErrEmptyID
	}
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.arena == nil {
		s.dim = len(vector)
		s.arena = NewVectorArena(s.dim)
	}
	if len(vector) != s.dim {
		return &ErrDimensionMismatch{Expected: s.dim, Actual: len(vector)}
	}

	if idx, ok := s.index[id]; ok {
		return s.arena.Set(idx, vector)
	}

	idx, err := s.arena.Add(vector)
	if err != nil {
		return err
	}
	s.index[id] = idx
	s.revIndex = append(s.revIndex, id)
	return nil
}

// Search returns up to k stored ids nearest to query by Euclidean distance,
// closest first. k is capped at the number of stored vectors.
func (s *Store) Search(query []float32, k int) ([]Result, error) {
	if len(query) == 0 {
		return nil, ErrEmptyVector
	}
	if k <= 0 {
		return []Result{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.arena == nil {
		return []Result{}, nil
	}
	if len(query) != s.dim {
		return nil, &ErrDimensionMismatch{Expected: s.dim, Actual: len(query)}
	}

	if n := s.arena.Size(); k > n {
		k = n
	}
	if k == 0 {
		return []Result{}, nil
	}

	best := newNearest(k)
	s.arena.Each(func(idx uint32, vec []float32) {
		best.offer(Match{Index: idx, Distance: euclidean(query, vec)})
	})

	matches := best.drain()
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{ID: s.revIndex[m.Index], Distance: m.Distance})
	}
	return results, nil
}

// Len returns the number of distinct ids stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revIndex)
}

// Dim returns the store's dimension, 0 until it is known.
func (s *Store) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}
