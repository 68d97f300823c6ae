// Package embeddings provides text embedding capabilities for the
// ingestion and retrieval pipeline.
package embeddings

import "context"

// Embedder converts batches of text into fixed-dimension vectors.
//
// Implementations must return one row per input, in input order, and may
// assume the package-level Normalize helper is applied to every row before
// it is returned: callers rely on unit-length vectors so that inner product
// equals cosine similarity.
type Embedder interface {
	// Encode converts texts into vector embeddings, one row per input.
	Encode(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the width of the vectors this embedder produces.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}
