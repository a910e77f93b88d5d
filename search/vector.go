package search

import (
	"fmt"
	"slices"

	"github.com/poiesic/alphagraph/core"
)

// Neighbor is a vector search hit: a positional id and its distance to the query.
type Neighbor struct {
	ID       int
	Distance float64
}

// Similarity converts the distance to a score in (0, 1].
func (n Neighbor) Similarity() float64 {
	return 1 / (1 + n.Distance)
}

// FlatIndex is an exact nearest-neighbor index. Search compares the query
// against every stored vector using squared Euclidean distance.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index for vectors of length dim.
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// newFlatIndexFromSet wraps a validated vector set without copying.
func newFlatIndexFromSet(set core.VectorSet) *FlatIndex {
	return &FlatIndex{dim: set.Dim, vectors: set.Vectors}
}

// Dim returns the vector dimension.
func (f *FlatIndex) Dim() int {
	return f.dim
}

// Len returns the number of stored vectors.
func (f *FlatIndex) Len() int {
	return len(f.vectors)
}

// Add appends vectors. Ids are assigned by insertion order.
func (f *FlatIndex) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: got %d, index has %d", core.ErrDimensionMismatch, len(v), f.dim)
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Search returns the k nearest vectors to query, closest first. Equal
// distances keep insertion order. Fewer than k neighbors are returned when
// the index is smaller than k.
func (f *FlatIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", core.ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return []Neighbor{}, nil
	}

	all := make([]Neighbor, len(f.vectors))
	for i, v := range f.vectors {
		all[i] = Neighbor{ID: i, Distance: squaredL2(query, v)}
	}
	slices.SortStableFunc(all, func(a, b Neighbor) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})

	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}

// VectorSet returns the persistable form of the index.
func (f *FlatIndex) VectorSet() core.VectorSet {
	return core.VectorSet{Dim: f.dim, Vectors: f.vectors}
}

func squaredL2(a, b []float32) float64 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float64(sum)
}
