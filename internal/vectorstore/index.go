// Package vectorstore provides the exact cosine-similarity index backing
// the retrieval engine.
package vectorstore

import (
	"math"
	"sort"

	"github.com/atihsingh22/research-agent/internal/domain"
)

// Hit is one ranked row from a search.
type Hit struct {
	Row   int
	Score float32
}

// Index stores L2-normalized vectors and serves brute-force inner
// product search, which equals cosine similarity after normalization.
// It supports append-only insertion and wholesale rebuild; callers
// synchronize access (the engine holds the read-write lock).
type Index struct {
	dimension int
	vectors   [][]float32
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Append normalizes and stores a vector at the next row position.
func (ix *Index) Append(vec []float32) error {
	if len(vec) != ix.dimension {
		return domain.ErrDimensionMismatch
	}
	ix.vectors = append(ix.vectors, normalize(vec))
	return nil
}

// Rebuild replaces the index contents with the given vectors.
func (ix *Index) Rebuild(vectors [][]float32) error {
	rebuilt := make([][]float32, 0, len(vectors))
	for _, vec := range vectors {
		if len(vec) != ix.dimension {
			return domain.ErrDimensionMismatch
		}
		rebuilt = append(rebuilt, normalize(vec))
	}
	ix.vectors = rebuilt
	return nil
}

// Search scans every stored vector and returns the k best rows by
// descending similarity. k is clamped to the index size; an empty index
// yields no hits.
func (ix *Index) Search(query []float32, k int) []Hit {
	if len(ix.vectors) == 0 || k <= 0 {
		return nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	q := normalize(query)

	hits := make([]Hit, len(ix.vectors))
	for i, vec := range ix.vectors {
		hits[i] = Hit{Row: i, Score: dot(q, vec)}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits[:k]
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

// Dimension returns the vector length the index accepts.
func (ix *Index) Dimension() int { return ix.dimension }

// normalize returns an L2-normalized copy; zero vectors pass through.
func normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
