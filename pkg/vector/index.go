// Package vector provides a flat exact-search index over normalized
// embeddings plus its two-artifact persistence.
//
// The index stores vectors in insertion order; the caller keeps a parallel
// metadata list and joins results back by offset. Offset is the only join
// key, so insertion order must never be reordered independently of the
// metadata list.
package vector

import (
	"fmt"
	"sort"
)

// ChunkMeta is the persisted metadata for the chunk stored at one vector
// offset. metadata[i] describes the vector at offset i.
type ChunkMeta struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Hit is one search result: the offset of a stored vector and its inner
// product against the query. With unit vectors on both sides the score is
// the cosine similarity.
type Hit struct {
	Offset int
	Score  float32
}

// Index is a flat collection of fixed-width vectors searched exhaustively.
// Exact search means recall is always 100% for the inner-product metric.
type Index struct {
	dim     int
	vectors []float32 // row-major, count*dim
}

// New creates an empty index for vectors of width dim.
func New(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dim)
	}
	return &Index{dim: dim}, nil
}

// Dimensions returns the vector width the index was built for.
func (ix *Index) Dimensions() int {
	return ix.dim
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int {
	return len(ix.vectors) / ix.dim
}

// Add appends rows in order. Every row must match the index dimension.
func (ix *Index) Add(rows [][]float32) error {
	for i, row := range rows {
		if len(row) != ix.dim {
			return fmt.Errorf("%w: row %d has %d dimensions, index has %d", ErrDimensionMismatch, i, len(row), ix.dim)
		}
	}
	for _, row := range rows {
		ix.vectors = append(ix.vectors, row...)
	}
	return nil
}

// Search returns up to min(k, Len()) offsets with the highest inner product
// against query, strictly descending by score. Equal scores are broken by
// lower offset so rankings are deterministic.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	count := ix.Len()
	hits := make([]Hit, 0, count)
	for i := 0; i < count; i++ {
		row := ix.vectors[i*ix.dim : (i+1)*ix.dim]
		var dot float32
		for j := range row {
			dot += row[j] * query[j]
		}
		hits = append(hits, Hit{Offset: i, Score: dot})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Offset < hits[b].Offset
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
