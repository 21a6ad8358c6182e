package store

import "fmt"

const PageSizeBytes = 4 * 1024 * 1024 // 4MB

// VectorArena packs fixed-size vectors into pages of PageSizeBytes.
// It does no locking; Store guards it.
type VectorArena struct {
	dim            int
	pages          [][]float32
	vectorsPerPage int
	total          uint32
}

func NewVectorArena(dim int) *VectorArena {
	perPage := PageSizeBytes / (dim * 4) // 4 bytes per float32
	if perPage < 1 {
		perPage = 1
	}
	return &VectorArena{
		dim:            dim,
		vectorsPerPage: perPage,
	}
}

// Add copies vector into the arena and returns its global index.
func (a *VectorArena) Add(vector []float32) (uint32, error) {
	if len(vector) != a.dim {
		return 0, fmt.Errorf("vector dimension mismatch expected %d got %d", a.dim, len(vector))
	}

	slot := int(a.total) % a.vectorsPerPage
	if slot == 0 {
		a.pages = append(a.pages, make([]float32, a.dim*a.vectorsPerPage))
	}
	page := a.pages[len(a.pages)-1]
	copy(page[slot*a.dim:(slot+1)*a.dim], vector)

	idx := a.total
	a.total++
	return idx, nil
}

// Set overwrites the vector stored at index.
func (a *VectorArena) Set(index uint32, vector []float32) error {
	if len(vector) != a.dim {
		return fmt.Errorf("vector dimension mismatch expected %d got %d", a.dim, len(vector))
	}
	view, err := a.view(index)
	if err != nil {
		return err
	}
	copy(view, vector)
	return nil
}

// Each calls fn with a read-only view of every stored vector, in index order.
func (a *VectorArena) Each(fn func(index uint32, vec []float32)) {
	for i := uint32(0); i < a.total; i++ {
		view, _ := a.view(i)
		fn(i, view)
	}
}

// Size returns the number of vectors stored.
func (a *VectorArena) Size() int {
	return int(a.total)
}

func (a *VectorArena) view(index uint32) ([]float32, error) {
	if index >= a.total {
		return nil, fmt.Errorf("index %d out of bounds", index)
	}
	page := a.pages[int(index)/a.vectorsPerPage]
	off := (int(index) % a.vectorsPerPage) * a.dim
	return page[off : off+a.dim], nil
}
